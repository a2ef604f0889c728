package bootstrap

import (
	"context"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/devpay-backend/internal/errs"
)

const redisPingTimeout = 5 * time.Second

// InitFirestore opens the client backing the payment and ledger collections.
// FIRESTORE_EMULATOR_HOST is honoured by the client itself.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
			return nil, errs.NewValidationError("PROJECTID is required for the firestore storage backend")
		}
		projectID = firestore.DetectProjectID
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "failed to open firestore client", err)
	}
	return client, nil
}

// InitFirebase returns the token verifier used to guard /api when AUTHENABLED is set.
func InitFirebase(ctx context.Context, projectID string) (*auth.Client, error) {
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		return nil, errs.NewExternalServiceError("firebase", "failed to initialise firebase app", false, err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errs.NewExternalServiceError("firebase", "failed to initialise firebase auth", false, err)
	}
	return client, nil
}

// InitRedis connects the GitHub response cache and fails fast if the server
// does not answer a ping.
func InitRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.NewExternalServiceError("redis", "redis ping failed", true, err)
	}
	return client, nil
}
