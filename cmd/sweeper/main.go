package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/app"
	"github.com/BruksfildServices01/slot-booking/internal/config"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
)

// The sweeper cancels expired pending orders and frees their slots. With
// SWEEP_INTERVAL_SECONDS=0 it runs once, for cron; otherwise it loops.
func main() {
	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Fatal("sweeper needs shared storage; run the api with SWEEP_INTERVAL_SECONDS instead")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := app.OpenStore(cfg, logger)
	defer store.Close()

	runner, redisClient, err := app.NewSweepRunner(ctx, cfg, store, logger)
	if err != nil {
		logger.Fatal("sweeper", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if err := runner.Run(ctx); err != nil {
		logger.Error("sweep failed", zap.Error(err))
		return
	}
	logger.Info("sweeper stopped")
}
