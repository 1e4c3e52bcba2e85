package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/reports"
	"carbon-footprint/footprint-backend/internal/reports/scheduler"
	"carbon-footprint/footprint-backend/pkg/storage"
)

type stubExporter struct{}

func (stubExporter) Export(_ context.Context, _ string, format reports.ExportFormat) (*reports.ExportResult, error) {
	return &reports.ExportResult{
		Format:      format,
		FileName:    "carbon-footprint-powerbi-2026-10-17.json",
		ContentType: format.ContentType(),
		Data:        []byte(`{}`),
	}, nil
}

func newWorker(store storage.ObjectStore, snapshot *scheduler.Snapshot, config SnapshotWorkerConfig) *SnapshotWorker {
	executor := scheduler.NewExecutor(stubExporter{}, store, nil, zap.NewNop(), scheduler.DefaultExecutorConfig())
	manager := scheduler.NewScheduleManager(executor, zap.NewNop())
	return NewSnapshotWorker(manager, []*scheduler.Snapshot{snapshot}, zap.NewNop(), config)
}

func TestSnapshotWorkerRunsOnStart(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newWorker(store, &scheduler.Snapshot{
		Name:           "daily-report",
		Format:         reports.ExportFormatJSON,
		CronExpression: scheduler.DefaultCronExpression,
	}, SnapshotWorkerConfig{RunOnStart: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return len(store.Keys()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, store.Keys()[0], "carbon-footprint-powerbi-2026-10-17.json")

	w.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSnapshotWorkerRejectsInvalidSnapshot(t *testing.T) {
	w := newWorker(storage.NewMemoryStore(), &scheduler.Snapshot{
		Name:           "daily-report",
		Format:         "pdf",
		CronExpression: scheduler.DefaultCronExpression,
	}, SnapshotWorkerConfig{})

	err := w.Start(context.Background())
	assert.ErrorContains(t, err, "unsupported export format")
}
