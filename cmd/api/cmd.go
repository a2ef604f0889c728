package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/devpay-backend/internal/bootstrap"
	"github.com/GregMSThompson/devpay-backend/internal/config"
	"github.com/GregMSThompson/devpay-backend/internal/handlers"
	"github.com/GregMSThompson/devpay-backend/internal/response"
	"github.com/GregMSThompson/devpay-backend/internal/router"
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

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	pstore, lstore := store.NewStores(bs.Firestore)
	cstore := store.NewCacheStore(bs.Redis)

	// services
	ledserv := services.NewLedgerService(pstore, lstore)
	payserv := services.NewPaymentService(pstore, ledserv)
	statserv := services.NewStatsService(pstore, lstore)
	gitserv := services.NewGitHubService(bs.GitHubAdapter, cstore, cfg.GitHubRepo)
	odserv := services.NewOneDriveService(bs.OneDriveAdapter, cfg.OneDriveFolderPath)

	// seed
	if cfg.SeedFile != "" {
		ctx := logger.ToContext(context.Background(), bs.Log)
		f, err := seed.Load(cfg.SeedFile)
		exitOnError("seed load failed", err, bs.Log)
		_, err = seed.Apply(ctx, f, ledserv, payserv)
		exitOnError("seed apply failed", err, bs.Log)
	}

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.PaymentSvc = payserv
	deps.LedgerSvc = ledserv
	deps.StatsSvc = statserv
	deps.GitHubSvc = gitserv
	deps.OneDriveSvc = odserv
	deps.AllowedOrigins = cfg.AllowedOrigins
	deps.Environment = cfg.Environment

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		bs.Log.Info("server starting", "addr", srv.Addr, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
	}
	bs.Log.Info("server stopped")
}
