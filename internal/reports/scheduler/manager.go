package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/reports"
)

// DefaultCronExpression runs snapshots daily at 06:00
const DefaultCronExpression = "0 6 * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Snapshot describes a recurring report export
type Snapshot struct {
	Name           string               `json:"name"`
	UserID         string               `json:"user_id"`
	Format         reports.ExportFormat `json:"format"`
	CronExpression string               `json:"cron_expression"`
	Timezone       string               `json:"timezone"`
}

// JobStatus represents the status of a scheduled job
type JobStatus struct {
	Snapshot string    `json:"snapshot"`
	NextRun  time.Time `json:"next_run"`
	PrevRun  time.Time `json:"prev_run"`
	IsActive bool      `json:"is_active"`
}

// ScheduleManager runs snapshots on their cron schedules
type ScheduleManager struct {
	cron     *cron.Cron
	jobs     map[string]cron.EntryID
	executor *Executor
	logger   *zap.Logger
	mu       sync.RWMutex
	running  bool

	results chan *SnapshotResult
}

// NewScheduleManager creates a new schedule manager
func NewScheduleManager(executor *Executor, logger *zap.Logger) *ScheduleManager {
	return &ScheduleManager{
		cron:     cron.New(cron.WithParser(parser)),
		jobs:     make(map[string]cron.EntryID),
		executor: executor,
		logger:   logger,
	}
}

// Start starts the cron scheduler
func (m *ScheduleManager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("schedule manager already running")
	}
	m.running = true

	m.logger.Info("Starting schedule manager", zap.Int("jobs", len(m.jobs)))
	m.cron.Start()

	return nil
}

// Stop stops the scheduler and waits for running snapshots to finish
func (m *ScheduleManager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.logger.Info("Stopping schedule manager")

	ctx := m.cron.Stop()
	<-ctx.Done()
}

// AddSnapshot registers a snapshot, replacing any snapshot with the same name
func (m *ScheduleManager) AddSnapshot(snapshot *Snapshot) error {
	if snapshot.Name == "" {
		return fmt.Errorf("snapshot name is required")
	}
	if !snapshot.Format.Valid() {
		return fmt.Errorf("unsupported export format: %s", snapshot.Format)
	}
	if err := ValidateCronExpression(snapshot.CronExpression); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	schedule := snapshot.CronExpression
	if snapshot.Timezone != "" {
		if _, err := time.LoadLocation(snapshot.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
		schedule = "CRON_TZ=" + snapshot.Timezone + " " + schedule
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entryID, ok := m.jobs[snapshot.Name]; ok {
		m.cron.Remove(entryID)
	}

	entryID, err := m.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.executor.config.Timeout)
		defer cancel()
		m.run(ctx, snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	m.jobs[snapshot.Name] = entryID

	m.logger.Info("Added snapshot",
		zap.String("snapshot", snapshot.Name),
		zap.String("cron", snapshot.CronExpression),
		zap.String("description", DescribeCronExpression(snapshot.CronExpression)))

	return nil
}

// RemoveSnapshot removes a snapshot from the manager
func (m *ScheduleManager) RemoveSnapshot(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entryID, ok := m.jobs[name]; ok {
		m.cron.Remove(entryID)
		delete(m.jobs, name)

		m.logger.Info("Removed snapshot", zap.String("snapshot", name))
	}
}

// RunNow executes a snapshot immediately, outside its schedule
func (m *ScheduleManager) RunNow(ctx context.Context, snapshot *Snapshot) (*SnapshotResult, error) {
	return m.executor.Execute(ctx, snapshot)
}

// Results returns a channel receiving the result of every scheduled run.
// It must be called before Start; results are dropped when nobody reads them.
func (m *ScheduleManager) Results() <-chan *SnapshotResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.results == nil {
		m.results = make(chan *SnapshotResult, 16)
	}
	return m.results
}

func (m *ScheduleManager) run(ctx context.Context, snapshot *Snapshot) {
	result, _ := m.executor.Execute(ctx, snapshot)

	m.mu.RLock()
	results := m.results
	m.mu.RUnlock()

	if results != nil {
		select {
		case results <- result:
		default:
		}
	}
}

// ActiveJobs returns the number of registered snapshots
func (m *ScheduleManager) ActiveJobs() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

// GetJobStatus returns the status of a scheduled snapshot
func (m *ScheduleManager) GetJobStatus(name string) (*JobStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entryID, ok := m.jobs[name]
	if !ok {
		return nil, fmt.Errorf("job not found")
	}

	entry := m.cron.Entry(entryID)
	return &JobStatus{
		Snapshot: name,
		NextRun:  entry.Next,
		PrevRun:  entry.Prev,
		IsActive: true,
	}, nil
}

// NextRun returns the first activation of a cron expression after from
func NextRun(expr string, from time.Time) (time.Time, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}

// ValidateCronExpression validates a cron expression
func ValidateCronExpression(expr string) error {
	_, err := parser.Parse(expr)
	return err
}

// DescribeCronExpression returns a human-readable description of a cron expression
func DescribeCronExpression(expr string) string {
	switch expr {
	case "0 * * * *":
		return "Every hour"
	case "0 0 * * *":
		return "Every day at midnight"
	case DefaultCronExpression:
		return "Every day at 6:00 AM"
	case "0 0 * * 0":
		return "Every Sunday at midnight"
	case "0 0 1 * *":
		return "First day of every month at midnight"
	default:
		return expr
	}
}
