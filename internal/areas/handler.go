package areas

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultSearchLimit = 5

// Handler serves the area dataset, scenarios and map layer
type Handler struct {
	rand   func() float64
	logger *zap.Logger
}

// NewHandler creates a new areas handler. rand drives the peak outlook jitter.
func NewHandler(rand func() float64, logger *zap.Logger) *Handler {
	return &Handler{
		rand:   rand,
		logger: logger,
	}
}

// RegisterRoutes registers area routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	areas := router.Group("/areas")
	{
		areas.GET("", h.listAreas)
		areas.GET("/search", h.searchAreas)
		areas.GET("/nearest", h.nearestArea)
		areas.GET("/geojson", h.getGeoJSON)
		areas.POST("/scenario", h.simulateScenario)
		areas.GET("/:city/:area", h.getArea)
	}
}

// ScenarioRequest is the body of a scenario simulation
type ScenarioRequest struct {
	Scenario Scenario `json:"scenario"`
	Filter   Filter   `json:"filter"`
}

// AreaDetail is a resolved area with its level and outlook
type AreaDetail struct {
	Area
	Match   MatchKind      `json:"match"`
	Sectors SectorFactors  `json:"sectors"`
	CO2     float64        `json:"co2"`
	Level   Level          `json:"level"`
	Color   string         `json:"color"`
	Peak    PeakPrediction `json:"peak"`
}

// listAreas handles GET /api/v1/areas
func (h *Handler) listAreas(c *gin.Context) {
	list := All()
	if city := c.Query("city"); city != "" {
		list = InCity(city)
	}
	center := Center()

	c.JSON(http.StatusOK, gin.H{
		"areas":   list,
		"summary": Summarize(),
		"center":  gin.H{"lat": center.Lat(), "lng": center.Lon()},
	})
}

// searchAreas handles GET /api/v1/areas/search?q=
func (h *Handler) searchAreas(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit := defaultSearchLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	results := Search(query, limit)
	if results == nil {
		results = []Area{}
	}
	c.JSON(http.StatusOK, gin.H{"areas": results})
}

// getArea handles GET /api/v1/areas/:city/:area
func (h *Handler) getArea(c *gin.Context) {
	area, kind := Lookup(c.Param("city"), c.Param("area"))
	if kind == MatchNone {
		c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
		return
	}

	co2 := round(area.CO2(), 2)
	level := Classify(co2)
	c.JSON(http.StatusOK, AreaDetail{
		Area:    area,
		Match:   kind,
		Sectors: SectorEmissions(area.City, area.Name),
		CO2:     co2,
		Level:   level,
		Color:   level.Color(),
		Peak:    PredictPeak(area, h.rand),
	})
}

// nearestArea handles GET /api/v1/areas/nearest?lat=&lng=
func (h *Handler) nearestArea(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}

	area, distance, err := Nearest(lat, lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"area":        area,
		"distance_km": distance,
	})
}

// simulateScenario handles POST /api/v1/areas/scenario
func (h *Handler) simulateScenario(c *gin.Context) {
	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := Simulate(req.Scenario, req.Filter)
	if results == nil {
		results = []ScenarioResult{}
	}

	h.logger.Debug("Simulated scenario",
		zap.Int("areas", len(results)),
		zap.String("city", req.Filter.City))

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// getGeoJSON handles GET /api/v1/areas/geojson?co2Level=&city=&sector=
func (h *Handler) getGeoJSON(c *gin.Context) {
	var filter Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, FeatureCollection(Simulate(Scenario{}, filter)))
}
