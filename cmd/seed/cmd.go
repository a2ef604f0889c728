package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/devpay-backend/internal/bootstrap"
	"github.com/GregMSThompson/devpay-backend/internal/config"
	"github.com/GregMSThompson/devpay-backend/internal/seed"
	"github.com/GregMSThompson/devpay-backend/internal/services"
	"github.com/GregMSThompson/devpay-backend/internal/store"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// seed loads a YAML seed file into the configured storage backend and exits.
func main() {
	_ = godotenv.Load()

	// bootstrap
	cfg := config.New()
	path := flag.String("file", cfg.SeedFile, "seed file to apply")
	flag.Parse()

	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	if *path == "" {
		bs.Log.Error("no seed file given; set SEEDFILE or pass -file")
		os.Exit(2)
	}
	if cfg.StorageBackend == config.StorageMemory {
		bs.Log.Warn("seeding the memory backend; data is discarded when this process exits")
	}

	// stores
	pstore, lstore := store.NewStores(bs.Firestore)

	// services
	ledserv := services.NewLedgerService(pstore, lstore)
	payserv := services.NewPaymentService(pstore, ledserv)

	ctx := logger.ToContext(context.Background(), bs.Log)
	f, err := seed.Load(*path)
	exitOnError("seed load failed", err, bs.Log)
	res, err := seed.Apply(ctx, f, ledserv, payserv)
	exitOnError("seed apply failed", err, bs.Log)

	bs.Log.Info("seed complete", "file", *path, "developers", res.Developers, "payments", res.Payments)
}
