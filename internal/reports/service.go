package reports

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/prediction"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
	"carbon-footprint/footprint-backend/internal/reports/dashboard"
	"carbon-footprint/footprint-backend/internal/reports/export"
)

// Placeholders used when the survey carries no profile
const (
	DefaultUserName = "User"
	UnknownLocation = "Unknown"
)

// SurveySource loads a user's survey, falling back to the default survey
type SurveySource interface {
	Get(ctx context.Context, userID string) (*emissions.SurveyInput, bool, error)
}

// PeerComparer compares a total against stored submissions
type PeerComparer interface {
	Compare(ctx context.Context, req *benchmarks.ComparisonRequest) (*benchmarks.ComparisonResult, error)
}

// Service assembles and exports footprint reports
type Service struct {
	surveys    SurveySource
	predictor  prediction.Predictor
	peers      PeerComparer
	forecaster *emissions.Forecaster
	cache      *dashboard.ResponseCache
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewService creates a new reports service. cache and m may be nil.
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

// =====================================================
// Report Assembly
// =====================================================

// BuildReport assembles the report for a user from their stored survey.
// Reports are cached per user and survey content.
func (s *Service) BuildReport(ctx context.Context, userID string) (*PowerBIReport, error) {
	input, _, err := s.surveys.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}

	if s.cache == nil {
		return s.assemble(ctx, userID, input)
	}

	value, err := s.cache.GetOrSet(reportCacheKey(userID, input), func() (interface{}, error) {
		return s.assemble(ctx, userID, input)
	})
	if err != nil {
		return nil, err
	}
	return value.(*PowerBIReport), nil
}

func reportCacheKey(userID string, input *emissions.SurveyInput) string {
	data, _ := json.Marshal(input)
	return fmt.Sprintf("report:%s:%x", userID, sha256.Sum256(data))
}

// assemble computes every table of the report. The prediction, peer
// comparison and seasonal profile are gathered concurrently.
func (s *Service) assemble(ctx context.Context, userID string, input *emissions.SurveyInput) (*PowerBIReport, error) {
	now := s.forecaster.Now()
	breakdown := emissions.ComputeBreakdown(input)
	total := emissions.Total(breakdown)

	var (
		pred     *prediction.Prediction
		peers    *benchmarks.ComparisonResult
		seasonal emissions.SeasonalAnalysis
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pred = s.predictor.Predict(gctx, input, total)
		return nil
	})
	g.Go(func() error {
		result, err := s.peers.Compare(gctx, &benchmarks.ComparisonRequest{
			City:          input.City,
			Area:          input.Area,
			UserEmissions: &total,
		})
		if err != nil {
			return fmt.Errorf("failed to compare peers: %w", err)
		}
		peers = result
		return nil
	})
	g.Go(func() error {
		seasonal = emissions.ComputeSeasonalAnalysis(now)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Predictions.WithLabelValues(pred.Source).Inc()
	}

	if userID == "" {
		userID = fmt.Sprintf("user_%d", now.UnixMilli())
	}
	name := input.Name
	if name == "" {
		name = DefaultUserName
	}
	city, area := input.City, input.Area
	if city == "" {
		city = UnknownLocation
	}
	if area == "" {
		area = UnknownLocation
	}

	rows := breakdownRows(breakdown, total)
	report := &PowerBIReport{
		UserMetrics: UserMetrics{
			UserID:              userID,
			UserName:            name,
			City:                city,
			Area:                area,
			CalculatedTotal:     total,
			RecyclingCredit:     emissions.RecyclingCredit(input),
			EcoScore:            EcoScore(total),
			PerformanceLevel:    PerformanceLevel(total),
			ReportDate:          now.Format("2006-01-02"),
			NextMonthPrediction: pred.PredictedCO2,
			ExpectedChange:      emissions.Round2(pred.PredictedCO2 - total),
			PredictionSource:    pred.Source,
			ModelUsed:           pred.ModelUsed,
		},
		CO2Breakdown:   rows,
		ForecastData:   forecastRows(s.forecaster.ComputeForecast(total, pred.PredictedCO2)),
		SeasonalData:   seasonalRows(seasonal),
		PeerComparison: peerRows(peers),
		AreaAnalysis:   areaRows(city, area),
		Insights:       GenerateInsights(rows),
		GeneratedAt:    now,
	}

	s.logger.Info("Report assembled",
		zap.String("user_id", userID),
		zap.Float64("calculated_total", total),
		zap.Float64("next_month_prediction", pred.PredictedCO2),
		zap.String("prediction_source", pred.Source))

	return report, nil
}

// =====================================================
// Export
// =====================================================

// Export builds the user's report and encodes it in the given format
func (s *Service) Export(ctx context.Context, userID string, format ExportFormat) (*ExportResult, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}

	start := time.Now()
	result, err := s.export(ctx, userID, format)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		s.metrics.Exports.WithLabelValues(string(format), status).Inc()
		s.metrics.ExportDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	}
	return result, err
}

func (s *Service) export(ctx context.Context, userID string, format ExportFormat) (*ExportResult, error) {
	report, err := s.BuildReport(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := Encode(report, format)
	if err != nil {
		return nil, fmt.Errorf("failed to export report: %w", err)
	}

	return &ExportResult{
		Format:      format,
		FileName:    FileName(report, format),
		ContentType: format.ContentType(),
		Data:        data,
		Size:        len(data),
	}, nil
}

// Encode serializes a report in the given format
func Encode(report *PowerBIReport, format ExportFormat) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case ExportFormatCSV:
		err = export.WriteCSV(&buf, report.Tables())
	case ExportFormatExcel:
		err = export.WriteWorkbook(&buf, report.Tables(), export.DefaultExcelOptions())
	case ExportFormatJSON:
		err = export.WriteJSON(&buf, report)
	default:
		err = fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName returns the download name of an exported report
func FileName(report *PowerBIReport, format ExportFormat) string {
	return fmt.Sprintf("carbon-footprint-powerbi-%s.%s", report.UserMetrics.ReportDate, format.Extension())
}
