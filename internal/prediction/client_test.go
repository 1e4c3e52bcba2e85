package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

func testForecaster() *emissions.Forecaster {
	return emissions.NewForecaster(
		emissions.WithRand(func() float64 { return 0.5 }),
		emissions.WithClock(func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }),
	)
}

func TestPredictUsesService(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"predicted_co2": 402.9, "confidence": 0.85, "model_used": "XGBoost"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", time.Second, 1, testForecaster(), zap.NewNop())
	p := c.Predict(context.Background(), &emissions.SurveyInput{Electricity: 150, City: "Mumbai"}, 366.3)

	assert.Equal(t, 402.9, p.PredictedCO2)
	assert.Equal(t, 0.85, p.Confidence)
	assert.Equal(t, "XGBoost", p.ModelUsed)
	assert.Equal(t, SourceModel, p.Source)
	assert.Equal(t, 150.0, body["electricity"])
	assert.Equal(t, "Mumbai", body["city"])
	assert.Equal(t, 366.3, body["current_co2"])
}

func TestPredictFallsBackOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second, 2, testForecaster(), zap.NewNop())
	c.backoff = time.Millisecond
	p := c.Predict(context.Background(), &emissions.SurveyInput{}, 200)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, SourceFallback, p.Source)
	assert.Equal(t, FallbackModel, p.ModelUsed)
	// November factor 1.10 adds 2, trend adds 10
	assert.Equal(t, 212.0, p.PredictedCO2)
}

func TestPredictRejectsNegativeValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predicted_co2": -4}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second, 1, testForecaster(), zap.NewNop())
	p := c.Predict(context.Background(), &emissions.SurveyInput{}, 0)

	assert.Equal(t, SourceFallback, p.Source)
	// November factor 1.10 adds 2 on a zero trend
	assert.Equal(t, 2.0, p.PredictedCO2)
}

func TestPredictWithoutService(t *testing.T) {
	c := NewClient("", 0, 0, testForecaster(), zap.NewNop())
	p := c.Predict(context.Background(), emissions.DefaultSurvey(), 100)

	assert.Equal(t, SourceFallback, p.Source)
	assert.Equal(t, 107.0, p.PredictedCO2)
}
