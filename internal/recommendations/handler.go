package recommendations

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-footprint/footprint-backend/internal/emissions"
)

// SurveySource loads a user's survey, falling back to the default survey
type SurveySource interface {
	Get(ctx context.Context, userID string) (*emissions.SurveyInput, bool, error)
}

// Handler serves recommendations for the stored survey and for areas
type Handler struct {
	surveys SurveySource
	logger  *zap.Logger
}

// NewHandler creates a new recommendations handler
func NewHandler(surveys SurveySource, logger *zap.Logger) *Handler {
	return &Handler{
		surveys: surveys,
		logger:  logger,
	}
}

// RegisterRoutes registers recommendation routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	recs := router.Group("/recommendations")
	{
		recs.GET("", h.getRecommendations)
		recs.GET("/area", h.getAreaRecommendations)
	}
}

// getRecommendations handles GET /api/v1/recommendations
func (h *Handler) getRecommendations(c *gin.Context) {
	input, _, err := h.surveys.Get(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to load survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"high_impact_areas": HighImpactGroups(input),
		"recommendations":   ForSurvey(input),
	})
}

// getAreaRecommendations handles GET /api/v1/recommendations/area?city=&area=&co2=
// Without co2 the calculated total of the stored survey is used, and without
// city the survey's location.
func (h *Handler) getAreaRecommendations(c *gin.Context) {
	city, area := c.Query("city"), c.Query("area")

	var co2 float64
	if v := c.Query("co2"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "co2 must be a number"})
			return
		}
		co2 = parsed
	}

	if city == "" || c.Query("co2") == "" {
		input, _, err := h.surveys.Get(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			h.logger.Error("Failed to load survey", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if city == "" {
			city, area = input.City, input.Area
		}
		if c.Query("co2") == "" {
			co2 = emissions.Total(emissions.ComputeBreakdown(input))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"city":            city,
		"area":            area,
		"recommendations": ForArea(city, area, co2),
	})
}
