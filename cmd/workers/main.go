package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	v1 "carbon-footprint/footprint-backend/api/v1"
	"carbon-footprint/footprint-backend/internal/config"
	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/reports"
	"carbon-footprint/footprint-backend/internal/reports/scheduler"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := v1.OpenStores(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	objectStore, err := v1.OpenObjectStore(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open object storage", zap.Error(err))
	}

	api := v1.SetupAPI(cfg, stores, metrics.New(), logger)
	defer api.Cache.Stop()

	executor := scheduler.NewExecutor(api.ReportService, objectStore, api.Metrics, logger, scheduler.DefaultExecutorConfig())
	manager := scheduler.NewScheduleManager(executor, logger)

	snapshot := &scheduler.Snapshot{
		Name:           "daily-report",
		UserID:         cfg.Scheduler.UserID,
		Format:         reports.ExportFormat(cfg.Scheduler.Format),
		CronExpression: cfg.Scheduler.CronExpression,
		Timezone:       cfg.Scheduler.Timezone,
	}
	worker := NewSnapshotWorker(manager, []*scheduler.Snapshot{snapshot}, logger, SnapshotWorkerConfig{
		RunOnStart: os.Getenv("SNAPSHOT_RUN_ON_START") == "true",
	})

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Start worker
	logger.Info("Snapshot worker starting",
		zap.String("cron", snapshot.CronExpression),
		zap.String("schedule", scheduler.DescribeCronExpression(snapshot.CronExpression)))
	if err := worker.Start(ctx); err != nil {
		logger.Error("Worker error", zap.Error(err))
	}

	logger.Info("Snapshot worker stopped")
}
