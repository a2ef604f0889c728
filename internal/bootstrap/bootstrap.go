package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	githubclient "github.com/GregMSThompson/devpay-backend/internal/client/github"
	onedriveclient "github.com/GregMSThompson/devpay-backend/internal/client/onedrive"
	"github.com/GregMSThompson/devpay-backend/internal/config"
	"github.com/GregMSThompson/devpay-backend/internal/store"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type Bootstrap struct {
	Log             *slog.Logger
	Firestore       *firestore.Client
	Firebase        *auth.Client
	Redis           *redis.Client
	Secrets         *secretmanager.Client
	GitHubAdapter   *githubclient.Adapter
	OneDriveAdapter *onedriveclient.Adapter
}

// Run builds the clients the configuration asks for. Optional integrations
// stay nil when their settings are absent.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	if cfg.StorageBackend == config.StorageFirestore {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.AuthEnabled {
		bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.RedisAddr != "" {
		bs.Redis, err = InitRedis(applicationCtx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return bs, err
		}
	}

	token := cfg.GitHubToken
	if token == "" && cfg.GitHubTokenSecret != "" {
		bs.Secrets, err = secretmanager.NewClient(applicationCtx)
		if err != nil {
			return bs, err
		}
		token, err = store.NewSecretStore(bs.Secrets, cfg.ProjectID).GetSecret(applicationCtx, cfg.GitHubTokenSecret)
		if err != nil {
			return bs, err
		}
	}
	bs.GitHubAdapter = githubclient.NewAdapter(token)
	if !bs.GitHubAdapter.Configured() {
		bs.Log.Warn("github token not configured; workload and issue endpoints will fail")
	}

	bs.OneDriveAdapter = onedriveclient.NewAdapter(
		cfg.OneDriveClientID,
		cfg.OneDriveClientSecret,
		cfg.OneDriveTenantID,
		cfg.OneDriveRedirectURI,
	)
	if !bs.OneDriveAdapter.Configured() {
		bs.Log.Warn("onedrive client credentials not configured")
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("firestore close failed", "error", err)
		}
	}
	if bs.Redis != nil {
		if err := bs.Redis.Close(); err != nil {
			bs.Log.Error("redis close failed", "error", err)
		}
	}
	if bs.Secrets != nil {
		if err := bs.Secrets.Close(); err != nil {
			bs.Log.Error("secret manager close failed", "error", err)
		}
	}
}
