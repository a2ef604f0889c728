package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/devpay-backend/internal/errs"
)

// cacheStore keeps JSON-encoded values in Redis with a per-key TTL.
type cacheStore struct {
	client *redis.Client
	prefix string
}

func NewCacheStore(client *redis.Client) *cacheStore {
	return &cacheStore{client: client, prefix: "devpay:"}
}

func (s *cacheStore) key(k string) string {
	return s.prefix + k
}

// GetJSON decodes the cached value into dst. A miss returns false and no error.
// A nil store always misses.
func (s *cacheStore) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to read cache entry", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errs.NewDatabaseError("read", "failed to decode cache entry", err)
	}
	return true, nil
}

func (s *cacheStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to encode cache entry", err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, ttl).Err(); err != nil {
		return errs.NewDatabaseError("create", "failed to write cache entry", err)
	}
	return nil
}
