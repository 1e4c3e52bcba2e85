package survey

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the stored survey
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new survey handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers survey routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	survey := router.Group("/survey")
	{
		survey.GET("", h.getSurvey)
		survey.PUT("", h.saveSurvey)
		survey.DELETE("", h.deleteSurvey)
	}
}

// getSurvey handles GET /api/v1/survey
func (h *Handler) getSurvey(c *gin.Context) {
	input, stored, err := h.service.Get(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to get survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"survey": input,
		"stored": stored,
	})
}

// saveSurvey handles PUT /api/v1/survey
func (h *Handler) saveSurvey(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.service.Save(c.Request.Context(), c.GetString("user_id"), raw)
	if err != nil {
		h.logger.Error("Failed to save survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"survey": input})
}

// deleteSurvey handles DELETE /api/v1/survey
func (h *Handler) deleteSurvey(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("user_id")); err != nil {
		h.logger.Error("Failed to delete survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
