package main

import (
	"context"

	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/reports/scheduler"
)

// SnapshotWorker runs scheduled report snapshots until stopped
type SnapshotWorker struct {
	manager   *scheduler.ScheduleManager
	snapshots []*scheduler.Snapshot
	logger    *zap.Logger
	config    SnapshotWorkerConfig
	done      chan struct{}
}

// SnapshotWorkerConfig configuration for the snapshot worker
type SnapshotWorkerConfig struct {
	RunOnStart bool
}

// NewSnapshotWorker creates a new snapshot worker
func NewSnapshotWorker(manager *scheduler.ScheduleManager, snapshots []*scheduler.Snapshot, logger *zap.Logger, config SnapshotWorkerConfig) *SnapshotWorker {
	return &SnapshotWorker{
		manager:   manager,
		snapshots: snapshots,
		logger:    logger,
		config:    config,
		done:      make(chan struct{}),
	}
}

// Start registers the snapshots and blocks until ctx is cancelled or Stop is called
func (w *SnapshotWorker) Start(ctx context.Context) error {
	for _, s := range w.snapshots {
		if err := w.manager.AddSnapshot(s); err != nil {
			return err
		}
	}

	results := w.manager.Results()
	if err := w.manager.Start(); err != nil {
		return err
	}
	defer w.manager.Stop()

	w.logger.Info("Starting snapshot worker", zap.Int("snapshots", len(w.snapshots)))

	if w.config.RunOnStart {
		for _, s := range w.snapshots {
			// Failures are logged by the executor
			_, _ = w.manager.RunNow(ctx, s)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Snapshot worker shutting down")
			return nil
		case <-w.done:
			w.logger.Info("Snapshot worker stopped")
			return nil
		case result := <-results:
			w.report(result)
		}
	}
}

// Stop stops the snapshot worker
func (w *SnapshotWorker) Stop() {
	close(w.done)
}

func (w *SnapshotWorker) report(result *scheduler.SnapshotResult) {
	if result == nil {
		return
	}
	if status, err := w.manager.GetJobStatus(result.Snapshot); err == nil {
		w.logger.Info("Snapshot finished",
			zap.String("snapshot", result.Snapshot),
			zap.String("status", result.Status),
			zap.String("download_url", result.DownloadURL),
			zap.Time("next_run", status.NextRun))
	}
}
