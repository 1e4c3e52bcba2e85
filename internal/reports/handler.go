package reports

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reports
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all report routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/powerbi", h.exportPowerBI)
	}
}

// exportPowerBI handles GET /api/v1/reports/powerbi
func (h *Handler) exportPowerBI(c *gin.Context) {
	format := ExportFormat(c.DefaultQuery("format", string(ExportFormatJSON)))
	if !format.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export format"})
		return
	}

	userID := c.GetString("user_id")
	result, err := h.service.Export(c.Request.Context(), userID, format)
	if err != nil {
		h.logger.Error("Failed to export report", zap.Error(err),
			zap.String("user_id", userID),
			zap.String("format", string(format)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// JSON is shown inline unless a download is requested
	if format != ExportFormatJSON || c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	}
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
