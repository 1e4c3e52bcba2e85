package footprint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/prediction"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
	"carbon-footprint/footprint-backend/internal/reports/dashboard"
)

type MockSurveySource struct {
	mock.Mock
}

func (m *MockSurveySource) Get(ctx context.Context, userID string) (*emissions.SurveyInput, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*emissions.SurveyInput), args.Bool(1), args.Error(2)
}

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, input *emissions.SurveyInput, currentTotal float64) *prediction.Prediction {
	args := m.Called(ctx, input, currentTotal)
	return args.Get(0).(*prediction.Prediction)
}

type MockPeerComparer struct {
	mock.Mock
}

func (m *MockPeerComparer) Compare(ctx context.Context, req *benchmarks.ComparisonRequest) (*benchmarks.ComparisonResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*benchmarks.ComparisonResult), args.Error(1)
}

func testSurvey() *emissions.SurveyInput {
	return &emissions.SurveyInput{
		Transportation: 100,
		Electricity:    150,
		AirTravel:      1,
		Recycling:      "Always",
		City:           "Mumbai",
		Area:           "Worli",
	}
}

type fixture struct {
	surveys   *MockSurveySource
	predictor *MockPredictor
	peers     *MockPeerComparer
	cache     *dashboard.ResponseCache
	metrics   *metrics.Metrics
	service   *Service
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		surveys:   new(MockSurveySource),
		predictor: new(MockPredictor),
		peers:     new(MockPeerComparer),
		cache:     dashboard.NewResponseCache(time.Minute, nil),
		metrics:   metrics.New(),
	}
	t.Cleanup(f.cache.Stop)

	forecaster := emissions.NewForecaster(
		emissions.WithRand(func() float64 { return 0.5 }),
		emissions.WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }),
	)
	f.service = NewService(f.surveys, f.predictor, f.peers, forecaster, f.cache, f.metrics, zap.NewNop())
	return f
}

// =====================================================
// Service
// =====================================================

func TestBreakdownUsesStoredSurvey(t *testing.T) {
	f := newFixture(t)
	f.surveys.On("Get", mock.Anything, "user-1").Return(testSurvey(), true, nil)

	result, err := f.service.Breakdown(context.Background(), "user-1", nil)
	require.NoError(t, err)

	assert.True(t, result.Stored)
	assert.Equal(t, 178.5, result.Total)
	assert.Equal(t, -5.0, result.RecyclingCredit)
	assert.Equal(t, 173.5, result.NetTotal)
	require.Len(t, result.Breakdown, 3)
	assert.Equal(t, emissions.CategoryTransportation, result.Breakdown[0].Name)
	assert.Equal(t, 21.0, result.Breakdown[0].Value)

	require.Len(t, result.TopCategories, 3)
	assert.Equal(t, emissions.CategoryAirTravel, result.TopCategories[0].Name)
	assert.Equal(t, 50.0, result.TopCategories[0].Percentage)
	assert.Equal(t, 38.0, result.TopCategories[1].Percentage)
	assert.Equal(t, 12.0, result.TopCategories[2].Percentage)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Calculations.WithLabelValues("breakdown")))
	f.surveys.AssertExpectations(t)
}

func TestBreakdownWithExplicitInputSkipsStore(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Breakdown(context.Background(), "user-1", &emissions.SurveyInput{})
	require.NoError(t, err)

	assert.False(t, result.Stored)
	assert.Empty(t, result.Breakdown)
	assert.Equal(t, 0.0, result.Total)
	assert.Empty(t, result.TopCategories)
	f.surveys.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestBreakdownStoreError(t *testing.T) {
	f := newFixture(t)
	f.surveys.On("Get", mock.Anything, "user-1").Return(nil, false, errors.New("connection refused"))

	_, err := f.service.Breakdown(context.Background(), "user-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load survey")
}

func TestForecastDefaultsAndPeak(t *testing.T) {
	f := newFixture(t)

	result := f.service.Forecast(&ForecastRequest{})
	assert.Equal(t, emissions.DefaultCurrentTotal, result.CurrentTotal)
	assert.Equal(t, emissions.DefaultPredictedTotal, result.PredictedNextMonth)
	require.Len(t, result.Points, emissions.ForecastMonths)

	first := result.Points[0]
	assert.Equal(t, "Oct 2026", first.Month)
	assert.True(t, first.IsCurrent)
	require.NotNil(t, first.Current)
	assert.Equal(t, emissions.DefaultCurrentTotal, *first.Current)

	require.NotNil(t, result.Peak)
	assert.Equal(t, "Sep 2027", result.Peak.Month)
	assert.InDelta(t, 436.45, result.Peak.Predicted, 1e-9)
}

func TestForecastClampsAtZero(t *testing.T) {
	f := newFixture(t)
	zero := 0.0

	result := f.service.Forecast(&ForecastRequest{CurrentTotal: &zero, PredictedNextMonth: &zero})
	for _, p := range result.Points {
		assert.GreaterOrEqual(t, p.Predicted, 0.0, p.Month)
	}
	assert.Equal(t, 0.0, result.Points[0].Predicted)
}

func TestPredictRecordsSource(t *testing.T) {
	f := newFixture(t)
	input := testSurvey()
	f.predictor.On("Predict", mock.Anything, input, 178.5).Return(&prediction.Prediction{
		PredictedCO2: 190,
		Confidence:   0.82,
		ModelUsed:    "gradient-boosting",
		Source:       prediction.SourceModel,
	})

	result, err := f.service.Predict(context.Background(), "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, 178.5, result.CurrentTotal)
	assert.Equal(t, 190.0, result.Prediction.PredictedCO2)
	assert.Equal(t, 190.0, result.Forecast.Points[0].Predicted)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Predictions.WithLabelValues(prediction.SourceModel)))
	f.predictor.AssertExpectations(t)
}

func TestSeasonalIsCached(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Seasonal()
	require.NoError(t, err)
	second, err := f.service.Seasonal()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, first.MonthlyData, 12)
	assert.Equal(t, emissions.SeasonPostMonsoon, first.CurrentSeason)

	stats := f.cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestPeerComparisonFillsFromStoredSurvey(t *testing.T) {
	f := newFixture(t)
	f.surveys.On("Get", mock.Anything, "user-1").Return(testSurvey(), true, nil)
	f.peers.On("Compare", mock.Anything, mock.MatchedBy(func(req *benchmarks.ComparisonRequest) bool {
		return req.City == "Mumbai" && req.Area == "Worli" && req.UserEmissions != nil && *req.UserEmissions == 178.5
	})).Return(&benchmarks.ComparisonResult{PercentileRanking: 40}, nil)

	result, err := f.service.PeerComparison(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.PercentileRanking)
	f.peers.AssertExpectations(t)
}

func TestPeerComparisonExplicitRequest(t *testing.T) {
	f := newFixture(t)
	total := 300.0
	req := &benchmarks.ComparisonRequest{City: "Navi Mumbai", Area: "Vashi", UserEmissions: &total}
	f.peers.On("Compare", mock.Anything, req).Return(nil, errors.New("database unavailable"))

	_, err := f.service.PeerComparison(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compare peers")
	f.surveys.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

// =====================================================
// Handler
// =====================================================

func setupRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	NewHandler(f.service, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHandlerBreakdownLenientBody(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/footprint/breakdown",
		strings.NewReader(`{"transportation":"100","electricity":150,"waste":"lots"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result BreakdownResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 88.5, result.Total)
	require.Len(t, result.Breakdown, 2)
	f.surveys.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHandlerBreakdownStoredSurvey(t *testing.T) {
	f := newFixture(t)
	f.surveys.On("Get", mock.Anything, "user-1").Return(testSurvey(), true, nil)
	router := setupRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/footprint/breakdown", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":178.5`)
	assert.Contains(t, w.Body.String(), `"stored":true`)
}

func TestHandlerBreakdownInvalidJSON(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/footprint/breakdown", strings.NewReader(`{"transportation":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerTopCategories(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/footprint/top-categories?n=1",
		strings.NewReader(`{"transportation":100,"electricity":150,"airTravel":1}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Categories []emissions.CategoryShare `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, emissions.CategoryAirTravel, body.Categories[0].Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/footprint/top-categories?n=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerForecast(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/footprint/forecast",
		strings.NewReader(`{"current_total":200,"predicted_next_month":210}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var result ForecastResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Points, 12)
	assert.Equal(t, 210.0, result.Points[0].Predicted)
	assert.Equal(t, 200.0, *result.Points[0].Current)
	assert.Nil(t, result.Points[1].Current)
}

func TestHandlerForecastRejectsNegativeTotals(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f)

	for _, body := range []string{`{"current_total":0,"predicted_next_month":-5}`, `{"current_total":-1}`} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/footprint/forecast", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "totals must not be negative")
	}
}

func TestHandlerSeasonal(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/footprint/seasonal", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"current_season":"Post-Monsoon"`)
}

func TestHandlerPeerComparisonError(t *testing.T) {
	f := newFixture(t)
	f.peers.On("Compare", mock.Anything, mock.Anything).Return(nil, errors.New("database unavailable"))
	router := setupRouter(f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/footprint/peer-comparison",
		strings.NewReader(`{"city":"Mumbai","area":"Worli","user_emissions":250}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "database unavailable")
}
