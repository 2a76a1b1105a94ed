package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberwatch/fireline/internal/iap"
	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/repository"
	"github.com/emberwatch/fireline/internal/spread"
	"github.com/emberwatch/fireline/internal/terrain"
)

type Handler struct {
	store           repository.PerimeterStore
	index           *spread.Index
	predictor       *spread.Predictor
	analyzer        *terrain.Analyzer
	matcher         *iap.Matcher
	defaultRadiusKm float64
}

func NewHandler(store repository.PerimeterStore, index *spread.Index, predictor *spread.Predictor, analyzer *terrain.Analyzer, matcher *iap.Matcher, defaultRadiusKm float64) *Handler {
	return &Handler{
		store:           store,
		index:           index,
		predictor:       predictor,
		analyzer:        analyzer,
		matcher:         matcher,
		defaultRadiusKm: defaultRadiusKm,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/fires", h.getFires)
	r.GET("/api/fires/near", h.getFiresNear)
	r.POST("/api/predict", h.predict)
	r.GET("/api/terrain", h.getTerrain)
	r.POST("/api/iap/match", h.matchIAP)
	r.GET("/health", h.health)
}

func (h *Handler) getFires(c *gin.Context) {
	filter := repository.Filter{
		Limit: 20, // default when limit param not supplied
	}

	if n := c.Query("name"); n != "" {
		filter.Name = n
	}
	if y := c.Query("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			filter.Year = &year
		}
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	perimeters, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch fire perimeters",
		})
		return
	}

	fc := toGeoJSON(perimeters)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getFiresNear(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	radiusKm := h.defaultRadiusKm
	if r := c.Query("radius_km"); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil && v > 0 {
			radiusKm = v
		}
	}
	limit := 20
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	neighbors, err := h.index.FindNear(c.Request.Context(), lat, lon, radiusKm, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "radius search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": neighbors})
}

type incidentRequest struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	EstimatedAcres float64 `json:"estimated_acres"`
	Fuel           string  `json:"fuel"`
	WindSpeedMS    float64 `json:"wind_speed_ms"`
	WindBearingDeg float64 `json:"wind_bearing_deg"`
	HumidityPct    float64 `json:"humidity_pct"`
}

func (r incidentRequest) incident() (models.Incident, bool) {
	fuel, ok := parseFuelType(r.Fuel)
	if !ok {
		return models.Incident{}, false
	}
	return models.Incident{
		Location:       models.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
		EstimatedAcres: r.EstimatedAcres,
		Fuel:           fuel,
		Weather: models.Weather{
			WindSpeedMS:    r.WindSpeedMS,
			WindBearingDeg: r.WindBearingDeg,
			HumidityPct:    r.HumidityPct,
		},
	}, true
}

func (h *Handler) predict(c *gin.Context) {
	var req incidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	incident, ok := req.incident()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fuel type"})
		return
	}

	prediction, err := h.predictor.Predict(c.Request.Context(), incident)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}
	c.JSON(http.StatusOK, prediction)
}

func (h *Handler) getTerrain(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	metrics, err := h.analyzer.Analyze(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "elevation source unavailable"})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

type iapMatchRequest struct {
	incidentRequest
	Category string `json:"category"`
}

func (h *Handler) matchIAP(c *gin.Context) {
	var req iapMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	incident, ok := req.incident()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fuel type"})
		return
	}
	category, ok := parseCategory(req.Category)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	// Terrain context feeds the rubric only for tactics guidance.
	var tm *models.TerrainMetrics
	if category == models.CategoryTactics {
		m, err := h.analyzer.Analyze(c.Request.Context(), incident.Location.Latitude, incident.Location.Longitude)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "elevation source unavailable"})
			return
		}
		tm = &m
	}

	insights := h.matcher.Match(incident, category, tm)
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseFuelType(s string) (models.FuelType, bool) {
	switch s {
	case "grass":
		return models.FuelGrass, true
	case "brush":
		return models.FuelBrush, true
	case "mixed":
		return models.FuelMixed, true
	case "chaparral":
		return models.FuelChaparral, true
	default:
		return "", false
	}
}

func parseCategory(s string) (models.InsightCategory, bool) {
	switch s {
	case "evacuation":
		return models.CategoryEvacuation, true
	case "resources":
		return models.CategoryResources, true
	case "tactics":
		return models.CategoryTactics, true
	default:
		return "", false
	}
}
