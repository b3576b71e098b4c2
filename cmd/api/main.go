package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/app"
	"github.com/BruksfildServices01/slot-booking/internal/config"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/payment"
	"github.com/BruksfildServices01/slot-booking/internal/routes"
	"github.com/BruksfildServices01/slot-booking/internal/storage"
)

func main() {
	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	store := app.OpenStore(cfg, logger)
	defer store.Close()

	deps := routes.Dependencies{
		Repo:   store.Repo,
		DB:     store.DB,
		Audit:  store.Audit,
		Logger: logger,
	}

	if cfg.ReceiptsEnabled() {
		deps.Receipts = storage.NewReceiptStore(storage.S3Config{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Bucket:          cfg.ReceiptsBucket,
			URLTTL:          cfg.ReceiptURLTTL,
		}, logger)
		logger.Info("receipt uploads enabled", zap.String("bucket", cfg.ReceiptsBucket))
	}

	if cfg.MercadoPagoAccessToken != "" {
		verifier, err := payment.NewMercadoPagoVerifier(cfg.MercadoPagoAccessToken)
		if err != nil {
			logger.Fatal("mercadopago", zap.Error(err))
		}
		deps.Payments = verifier
	} else {
		logger.Warn("MERCADOPAGO_ACCESS_TOKEN not set, payment webhook disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// In-process sweeper, mainly for the memory driver.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.SweepInterval > 0 {
		runner, redisClient, err := app.NewSweepRunner(workerCtx, cfg, store, logger)
		if err != nil {
			logger.Fatal("sweeper", zap.Error(err))
		}
		if redisClient != nil {
			defer redisClient.Close()
		}
		go func() { _ = runner.Run(workerCtx) }()
		logger.Info("sweeper started", zap.Duration("interval", cfg.SweepInterval))
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
