package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
)

// ErrLocationRequired is returned when a submission has no city or area
var ErrLocationRequired = errors.New("city and area are required")

// Service records submissions and answers questions about them
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new history service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Record decodes the survey of a submission, computes its total and stores it
func (s *Service) Record(ctx context.Context, userID string, req *SubmissionRequest) (*Submission, error) {
	input, err := emissions.DecodeSurvey(req.Survey)
	if err != nil {
		return nil, err
	}
	if input.City == "" || input.Area == "" {
		return nil, ErrLocationRequired
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode survey: %w", err)
	}

	submission := &Submission{
		UserID:        userID,
		City:          input.City,
		Area:          input.Area,
		Survey:        datatypes.JSON(data),
		CalculatedCO2: emissions.Total(emissions.ComputeBreakdown(input)),
		PredictedCO2:  req.PredictedCO2,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("Submission stored",
		zap.String("id", submission.ID.String()),
		zap.String("city", submission.City),
		zap.String("area", submission.Area),
		zap.Float64("calculated_co2", submission.CalculatedCO2))
	return submission, nil
}

// RecentUsers returns the latest submissions of an area, newest first
func (s *Service) RecentUsers(ctx context.Context, city, area string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	submissions, err := s.repo.Recent(ctx, city, area, limit)
	if err != nil {
		return nil, err
	}
	if submissions == nil {
		submissions = []Submission{}
	}
	return submissions, nil
}

// AreaStats summarises the totals stored for an area
func (s *Service) AreaStats(ctx context.Context, city, area string) (*AreaStats, error) {
	totals, err := s.repo.Totals(ctx, city, area)
	if err != nil {
		return nil, err
	}

	stats := benchmarks.CalculateStatistics(totals)
	return &AreaStats{
		City:      city,
		Area:      area,
		Count:     len(totals),
		AvgCO2:    emissions.Round2(stats.Mean),
		MedianCO2: emissions.Round2(stats.Median),
		MinCO2:    stats.Min,
		MaxCO2:    stats.Max,
		StdDevCO2: emissions.Round2(stats.StdDev),
	}, nil
}

// Count returns the number of stored submissions
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Totals exposes the stored totals for peer comparison
func (s *Service) Totals(ctx context.Context, city, area string) ([]float64, error) {
	return s.repo.Totals(ctx, city, area)
}
