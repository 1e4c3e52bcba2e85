package footprint

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/reports/benchmarks"
)

// Handler handles HTTP requests for footprint calculations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new footprint handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers footprint routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	footprint := router.Group("/footprint")
	{
		footprint.GET("/breakdown", h.getBreakdown)
		footprint.POST("/breakdown", h.getBreakdown)
		footprint.POST("/top-categories", h.getTopCategories)
		footprint.POST("/forecast", h.getForecast)
		footprint.POST("/predict", h.predict)
		footprint.GET("/seasonal", h.getSeasonal)
		footprint.POST("/peer-comparison", h.comparePeers)
	}
}

// bindSurvey decodes an optional survey body. An empty body yields nil so
// the stored survey is used.
func bindSurvey(c *gin.Context) (*emissions.SurveyInput, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return emissions.DecodeSurvey(raw)
}

// getBreakdown handles GET and POST /api/v1/footprint/breakdown
func (h *Handler) getBreakdown(c *gin.Context) {
	input, err := bindSurvey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Breakdown(c.Request.Context(), c.GetString("user_id"), input)
	if err != nil {
		h.logger.Error("Failed to compute breakdown", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getTopCategories handles POST /api/v1/footprint/top-categories?n=3
func (h *Handler) getTopCategories(c *gin.Context) {
	n := DefaultTopCategories
	if v := c.Query("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}

	input, err := bindSurvey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := h.service.TopCategories(c.Request.Context(), c.GetString("user_id"), input, n)
	if err != nil {
		h.logger.Error("Failed to compute top categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// getForecast handles POST /api/v1/footprint/forecast
func (h *Handler) getForecast(c *gin.Context) {
	var req ForecastRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if (req.CurrentTotal != nil && *req.CurrentTotal < 0) ||
		(req.PredictedNextMonth != nil && *req.PredictedNextMonth < 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totals must not be negative"})
		return
	}

	c.JSON(http.StatusOK, h.service.Forecast(&req))
}

// predict handles POST /api/v1/footprint/predict
func (h *Handler) predict(c *gin.Context) {
	input, err := bindSurvey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Predict(c.Request.Context(), c.GetString("user_id"), input)
	if err != nil {
		h.logger.Error("Failed to predict", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getSeasonal handles GET /api/v1/footprint/seasonal
func (h *Handler) getSeasonal(c *gin.Context) {
	analysis, err := h.service.Seasonal()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// comparePeers handles POST /api/v1/footprint/peer-comparison
func (h *Handler) comparePeers(c *gin.Context) {
	var req benchmarks.ComparisonRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.service.PeerComparison(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		h.logger.Error("Failed to compare peers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
