package footprint

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/prediction"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
	"carbon-footprint/footprint-backend/internal/reports/dashboard"
)

// DefaultTopCategories is the number of categories returned when none is requested
const DefaultTopCategories = 3

// SurveySource loads a user's survey, falling back to the default survey
type SurveySource interface {
	Get(ctx context.Context, userID string) (*emissions.SurveyInput, bool, error)
}

// PeerComparer compares a total against stored submissions
type PeerComparer interface {
	Compare(ctx context.Context, req *benchmarks.ComparisonRequest) (*benchmarks.ComparisonResult, error)
}

// BreakdownResult is the calculator output for one survey
type BreakdownResult struct {
	Breakdown       []emissions.CategoryEmission `json:"breakdown"`
	Extended        []emissions.CategoryEmission `json:"extended"`
	TopCategories   []emissions.CategoryShare    `json:"top_categories"`
	Total           float64                      `json:"total"`
	RecyclingCredit float64                      `json:"recycling_credit"`
	NetTotal        float64                      `json:"net_total"`
	Stored          bool                         `json:"stored"`
}

// ForecastRequest holds the two totals a forecast is anchored on
type ForecastRequest struct {
	CurrentTotal       *float64 `json:"current_total"`
	PredictedNextMonth *float64 `json:"predicted_next_month"`
}

// ForecastResult is the 12 month projection with its highest month
type ForecastResult struct {
	CurrentTotal       float64                   `json:"current_total"`
	PredictedNextMonth float64                   `json:"predicted_next_month"`
	Points             []emissions.ForecastPoint `json:"points"`
	Peak               *emissions.ForecastPoint  `json:"peak,omitempty"`
}

// PredictionResult pairs the next-month prediction with the forecast it anchors
type PredictionResult struct {
	CurrentTotal float64                `json:"current_total"`
	Prediction   *prediction.Prediction `json:"prediction"`
	Forecast     *ForecastResult        `json:"forecast"`
}

// Service serves footprint calculations
type Service struct {
	surveys    SurveySource
	predictor  prediction.Predictor
	peers      PeerComparer
	forecaster *emissions.Forecaster
	cache      *dashboard.ResponseCache
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewService creates a new footprint service. cache and m may be nil.
func NewService(
	surveys SurveySource,
	predictor prediction.Predictor,
	peers PeerComparer,
	forecaster *emissions.Forecaster,
	cache *dashboard.ResponseCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		surveys:    surveys,
		predictor:  predictor,
		peers:      peers,
		forecaster: forecaster,
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

func (s *Service) count(operation string) {
	if s.metrics != nil {
		s.metrics.Calculations.WithLabelValues(operation).Inc()
	}
}

// resolve returns input, or the user's stored survey when input is nil
func (s *Service) resolve(ctx context.Context, userID string, input *emissions.SurveyInput) (*emissions.SurveyInput, bool, error) {
	if input != nil {
		return input, false, nil
	}
	stored, ok, err := s.surveys.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load survey: %w", err)
	}
	return stored, ok, nil
}

// =====================================================
// Breakdown
// =====================================================

// Breakdown computes the category breakdown of a survey. A nil input uses
// the user's stored survey.
func (s *Service) Breakdown(ctx context.Context, userID string, input *emissions.SurveyInput) (*BreakdownResult, error) {
	input, stored, err := s.resolve(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	s.count("breakdown")

	breakdown := emissions.ComputeBreakdown(input)
	total := emissions.Total(breakdown)
	credit := emissions.RecyclingCredit(input)

	return &BreakdownResult{
		Breakdown:       breakdown,
		Extended:        emissions.ComputeExtendedBreakdown(input),
		TopCategories:   emissions.WithShares(emissions.TopN(breakdown, DefaultTopCategories), total),
		Total:           emissions.Round2(total),
		RecyclingCredit: credit,
		NetTotal:        emissions.Round2(total + credit),
		Stored:          stored,
	}, nil
}

// TopCategories returns the n largest categories of a survey. n <= 0 uses
// DefaultTopCategories.
func (s *Service) TopCategories(ctx context.Context, userID string, input *emissions.SurveyInput, n int) ([]emissions.CategoryShare, error) {
	input, _, err := s.resolve(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopCategories
	}
	s.count("top_categories")
	return emissions.TopCategories(input, n), nil
}

// =====================================================
// Forecast
// =====================================================

// Forecast projects the next 12 months. Missing totals use the dashboard
// defaults.
func (s *Service) Forecast(req *ForecastRequest) *ForecastResult {
	current := emissions.DefaultCurrentTotal
	if req != nil && req.CurrentTotal != nil {
		current = *req.CurrentTotal
	}
	predicted := emissions.DefaultPredictedTotal
	if req != nil && req.PredictedNextMonth != nil {
		predicted = *req.PredictedNextMonth
	}
	s.count("forecast")
	return s.forecast(current, predicted)
}

func (s *Service) forecast(current, predicted float64) *ForecastResult {
	points := s.forecaster.ComputeForecast(current, predicted)
	result := &ForecastResult{
		CurrentTotal:       current,
		PredictedNextMonth: predicted,
		Points:             points,
	}
	if peak, ok := emissions.Peak(points); ok {
		result.Peak = &peak
	}
	return result
}

// Predict asks the predictor for next month's total of a survey and
// anchors a forecast on it
func (s *Service) Predict(ctx context.Context, userID string, input *emissions.SurveyInput) (*PredictionResult, error) {
	input, _, err := s.resolve(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	total := emissions.Round2(emissions.Total(emissions.ComputeBreakdown(input)))
	pred := s.predictor.Predict(ctx, input, total)
	s.count("predict")
	if s.metrics != nil {
		s.metrics.Predictions.WithLabelValues(pred.Source).Inc()
	}

	s.logger.Info("Predicted next month",
		zap.String("user_id", userID),
		zap.Float64("current_total", total),
		zap.Float64("predicted", pred.PredictedCO2),
		zap.String("source", pred.Source))

	return &PredictionResult{
		CurrentTotal: total,
		Prediction:   pred,
		Forecast:     s.forecast(total, pred.PredictedCO2),
	}, nil
}

// =====================================================
// Seasonal Analysis
// =====================================================

// Seasonal returns the seasonal profile of the current year. The result is
// cached per month.
func (s *Service) Seasonal() (*emissions.SeasonalAnalysis, error) {
	now := s.forecaster.Now()
	compute := func() (interface{}, error) {
		analysis := emissions.ComputeSeasonalAnalysis(now)
		return &analysis, nil
	}
	s.count("seasonal")

	if s.cache == nil {
		value, _ := compute()
		return value.(*emissions.SeasonalAnalysis), nil
	}

	value, err := s.cache.GetOrSet("seasonal:"+now.Format("2006-01"), compute)
	if err != nil {
		return nil, err
	}
	return value.(*emissions.SeasonalAnalysis), nil
}

// =====================================================
// Peer Comparison
// =====================================================

// PeerComparison compares the user against their area and city. Without an
// explicit total the stored survey's calculated total is used.
func (s *Service) PeerComparison(ctx context.Context, userID string, req *benchmarks.ComparisonRequest) (*benchmarks.ComparisonResult, error) {
	if req == nil {
		req = &benchmarks.ComparisonRequest{}
	}
	if req.UserEmissions == nil || req.City == "" {
		input, stored, err := s.surveys.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load survey: %w", err)
		}
		if req.City == "" {
			req.City = input.City
			if req.Area == "" {
				req.Area = input.Area
			}
		}
		if req.UserEmissions == nil && stored {
			total := emissions.Round2(emissions.Total(emissions.ComputeBreakdown(input)))
			req.UserEmissions = &total
		}
	}

	result, err := s.peers.Compare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to compare peers: %w", err)
	}
	s.count("peer_comparison")
	return result, nil
}
