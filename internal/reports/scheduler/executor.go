package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/reports"
	"carbon-footprint/footprint-backend/pkg/storage"
)

// Snapshot statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ReportExporter produces encoded reports
type ReportExporter interface {
	Export(ctx context.Context, userID string, format reports.ExportFormat) (*reports.ExportResult, error)
}

// SnapshotResult represents the outcome of one snapshot run
type SnapshotResult struct {
	ID          uuid.UUID `json:"id"`
	Snapshot    string    `json:"snapshot"`
	Status      string    `json:"status"`
	FileKey     string    `json:"file_key,omitempty"`
	Location    string    `json:"location,omitempty"`
	DownloadURL string    `json:"download_url,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
}

// ExecutorConfig configuration for the executor
type ExecutorConfig struct {
	Timeout           time.Duration `json:"timeout"`
	DownloadURLExpiry time.Duration `json:"download_url_expiry"`
	MaxFileSizeBytes  int64         `json:"max_file_size_bytes"`
}

// DefaultExecutorConfig returns default configuration
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		Timeout:           5 * time.Minute,
		DownloadURLExpiry: 24 * time.Hour,
		MaxFileSizeBytes:  20 * 1024 * 1024, // 20MB
	}
}

// Executor exports a report and stores it
type Executor struct {
	exporter ReportExporter
	storage  storage.ObjectStore
	metrics  *metrics.Metrics
	logger   *zap.Logger
	config   ExecutorConfig
	now      func() time.Time
}

// NewExecutor creates a new executor. m may be nil.
func NewExecutor(
	exporter ReportExporter,
	store storage.ObjectStore,
	m *metrics.Metrics,
	logger *zap.Logger,
	config ExecutorConfig,
) *Executor {
	if config.Timeout <= 0 {
		config.Timeout = DefaultExecutorConfig().Timeout
	}
	return &Executor{
		exporter: exporter,
		storage:  store,
		metrics:  m,
		logger:   logger,
		config:   config,
		now:      time.Now,
	}
}

// ObjectKey returns the storage key of a snapshot file: reports/<date>/<file>.
// Snapshots of a specific user carry the user ID in the file name.
func ObjectKey(date time.Time, userID, fileName string) string {
	if userID != "" {
		fileName = userID + "-" + fileName
	}
	return fmt.Sprintf("reports/%s/%s", date.Format("2006-01-02"), fileName)
}

// Execute runs one snapshot
func (e *Executor) Execute(ctx context.Context, snapshot *Snapshot) (*SnapshotResult, error) {
	startTime := e.now()
	result := &SnapshotResult{
		ID:        uuid.New(),
		Snapshot:  snapshot.Name,
		StartedAt: startTime,
	}

	e.logger.Info("Starting report snapshot",
		zap.String("snapshot_id", result.ID.String()),
		zap.String("snapshot", snapshot.Name),
		zap.String("format", string(snapshot.Format)))

	err := e.run(ctx, snapshot, result)

	result.CompletedAt = e.now()
	result.DurationMs = result.CompletedAt.Sub(startTime).Milliseconds()
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
	} else {
		result.Status = StatusCompleted
	}
	if e.metrics != nil {
		e.metrics.Snapshots.WithLabelValues(result.Status).Inc()
	}

	if err != nil {
		e.logger.Error("Report snapshot failed",
			zap.String("snapshot_id", result.ID.String()),
			zap.Error(err))
		return result, err
	}

	e.logger.Info("Report snapshot completed",
		zap.String("snapshot_id", result.ID.String()),
		zap.String("file_key", result.FileKey),
		zap.Int64("size_bytes", result.SizeBytes),
		zap.Int64("duration_ms", result.DurationMs))

	return result, nil
}

func (e *Executor) run(ctx context.Context, snapshot *Snapshot, result *SnapshotResult) error {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	report, err := e.exporter.Export(ctx, snapshot.UserID, snapshot.Format)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	result.SizeBytes = int64(len(report.Data))
	if e.config.MaxFileSizeBytes > 0 && result.SizeBytes > e.config.MaxFileSizeBytes {
		return fmt.Errorf("report exceeds maximum file size")
	}

	key := ObjectKey(result.StartedAt, snapshot.UserID, report.FileName)
	location, err := e.storage.Upload(ctx, key, bytes.NewReader(report.Data), report.ContentType)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	result.FileKey = key
	result.Location = location

	downloadURL, err := e.storage.GetPresignedURL(ctx, key, e.config.DownloadURLExpiry)
	if err != nil {
		e.logger.Warn("Failed to generate download URL", zap.Error(err))
	} else {
		result.DownloadURL = downloadURL
	}

	return nil
}
