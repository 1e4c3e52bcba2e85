package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

// Sources of a prediction
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// FallbackModel names the local estimate used when the model service is unavailable
const FallbackModel = "seasonal-trend"

// Prediction is a next-month estimate
type Prediction struct {
	PredictedCO2 float64 `json:"predicted_co2"`
	Confidence   float64 `json:"confidence"`
	ModelUsed    string  `json:"model_used"`
	Source       string  `json:"source"`
}

// Predictor produces next-month predictions
type Predictor interface {
	Predict(ctx context.Context, input *emissions.SurveyInput, currentTotal float64) *Prediction
}

type predictRequest struct {
	*emissions.SurveyInput
	CurrentCO2 float64 `json:"current_co2"`
}

// Client calls the external prediction service and falls back to the local
// seasonal-trend estimate on any failure
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	forecaster *emissions.Forecaster
	logger     *zap.Logger
}

// NewClient creates a prediction client. An empty baseURL disables remote calls.
func NewClient(baseURL string, timeout time.Duration, retries int, forecaster *emissions.Forecaster, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if retries <= 0 {
		retries = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries:    retries,
		backoff:    time.Second,
		forecaster: forecaster,
		logger:     logger,
	}
}

// Predict returns the model prediction, or the local estimate when the
// service is not configured or fails
func (c *Client) Predict(ctx context.Context, input *emissions.SurveyInput, currentTotal float64) *Prediction {
	if c.baseURL != "" {
		p, err := c.remote(ctx, input, currentTotal)
		if err == nil {
			return p
		}
		c.logger.Warn("Prediction service unavailable, using local estimate", zap.Error(err))
	}

	return &Prediction{
		PredictedCO2: emissions.Round2(c.forecaster.PredictNextMonth(currentTotal)),
		ModelUsed:    FallbackModel,
		Source:       SourceFallback,
	}
}

func (c *Client) remote(ctx context.Context, input *emissions.SurveyInput, currentTotal float64) (*Prediction, error) {
	payload, err := json.Marshal(predictRequest{SurveyInput: input, CurrentCO2: currentTotal})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		p, err := c.post(ctx, payload)
		if err == nil {
			return p, nil
		}
		lastErr = err
		c.logger.Debug("Prediction request failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, fmt.Errorf("prediction failed after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) post(ctx context.Context, payload []byte) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	if p.PredictedCO2 < 0 {
		return nil, fmt.Errorf("prediction service returned negative value %v", p.PredictedCO2)
	}
	p.Source = SourceModel
	return &p, nil
}
