package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for submission history
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new history handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers history routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	history := router.Group("/history")
	{
		history.POST("/submissions", h.createSubmission)
		history.GET("/recent/:city/:area", h.getRecentUsers)
		history.GET("/stats/:city/:area", h.getAreaStats)
		history.GET("/count", h.getCount)
	}
}

// createSubmission handles POST /api/v1/history/submissions
func (h *Handler) createSubmission(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.service.Record(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		if errors.Is(err, ErrLocationRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to store submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// getRecentUsers handles GET /api/v1/history/recent/:city/:area
func (h *Handler) getRecentUsers(c *gin.Context) {
	limit := DefaultRecentLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	submissions, err := h.service.RecentUsers(c.Request.Context(), c.Param("city"), c.Param("area"), limit)
	if err != nil {
		h.logger.Error("Failed to get recent users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// getAreaStats handles GET /api/v1/history/stats/:city/:area
func (h *Handler) getAreaStats(c *gin.Context) {
	stats, err := h.service.AreaStats(c.Request.Context(), c.Param("city"), c.Param("area"))
	if err != nil {
		h.logger.Error("Failed to get area statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getCount handles GET /api/v1/history/count
func (h *Handler) getCount(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
