package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/cbwatch/thundercloud-alerts/internal/analyzer"
	"github.com/cbwatch/thundercloud-alerts/internal/geo"
	"github.com/cbwatch/thundercloud-alerts/internal/models"
	"github.com/cbwatch/thundercloud-alerts/internal/repository"
)

// WeatherService is the slice of the orchestrator the HTTP layer needs.
type WeatherService interface {
	DirectionalForPoint(ctx context.Context, lat, lon float64) models.DirectionalData
	InQuietHours() bool
}

// StatsSource reports cache health counters.
type StatsSource interface {
	Stats(ctx context.Context) (repository.CacheStats, error)
}

type Handler struct {
	svc       WeatherService
	stats     StatsSource
	observers repository.ObserverRepository
	clock     clockwork.Clock
}

func NewHandler(svc WeatherService, stats StatsSource, observers repository.ObserverRepository, clock clockwork.Clock) *Handler {
	return &Handler{
		svc:       svc,
		stats:     stats,
		observers: observers,
		clock:     clock,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/weather", h.getWeather)
	r.GET("/api/weather/directional", h.getDirectionalWeather)
	r.GET("/api/cache/stats", h.getCacheStats)
	r.POST("/api/observers/location", h.updateObserverLocation)
	r.GET("/health", h.health)
}

// directionSummary is the condensed per-direction view returned by /api/weather.
type directionSummary struct {
	Direction  models.Direction `json:"direction"`
	DistanceKM int              `json:"distance_km"`
	TotalScore float64          `json:"total_score"`
	IsLikely   bool             `json:"is_likely"`
	RiskLevel  models.RiskLevel `json:"risk_level"`
}

func (h *Handler) getWeather(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	if h.svc.InQuietHours() {
		respondData(c, h.clock.Now(), quietSummary())
		return
	}

	data := h.svc.DirectionalForPoint(c.Request.Context(), lat, lon)
	assessment := analyzer.Assess(geo.Point{Latitude: lat, Longitude: lon}, data)

	summaries := make([]directionSummary, 0, len(models.Directions))
	for _, dir := range models.Directions {
		best, ok := assessment.Best[dir]
		if !ok {
			summaries = append(summaries, directionSummary{Direction: dir, RiskLevel: models.RiskNone})
			continue
		}
		summaries = append(summaries, directionSummary{
			Direction:  dir,
			DistanceKM: best.DistanceKM,
			TotalScore: best.Analysis.TotalScore,
			IsLikely:   best.Analysis.IsLikely,
			RiskLevel:  best.Analysis.RiskLevel,
		})
	}

	respondData(c, h.clock.Now(), gin.H{
		"latitude":   lat,
		"longitude":  lon,
		"directions": summaries,
	})
}

func (h *Handler) getDirectionalWeather(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	if h.svc.InQuietHours() {
		respondData(c, h.clock.Now(), quietSummary())
		return
	}

	origin := geo.Point{Latitude: lat, Longitude: lon}
	data := h.svc.DirectionalForPoint(c.Request.Context(), lat, lon)

	detail := make(map[models.Direction][]models.DirectionSample, len(models.Directions))
	for _, dir := range models.Directions {
		byDistance := data[dir]
		samples := make([]models.DirectionSample, 0, len(models.DistancesKM))
		for _, dist := range models.DistancesKM {
			ind, ok := byDistance[dist]
			if !ok {
				continue
			}
			p := geo.Project(origin, dir, float64(dist))
			samples = append(samples, models.DirectionSample{
				Direction:  dir,
				DistanceKM: dist,
				Latitude:   p.Latitude,
				Longitude:  p.Longitude,
				Indicators: ind,
				Analysis:   analyzer.Score(ind),
			})
		}
		detail[dir] = samples
	}

	respondData(c, h.clock.Now(), gin.H{
		"latitude":  lat,
		"longitude": lon,
		"detail":    detail,
	})
}

func (h *Handler) getCacheStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to read cache stats")
		return
	}
	respondStats(c, h.clock.Now(), stats)
}

type locationUpdate struct {
	Token     string  `json:"token" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

func (h *Handler) updateObserverLocation(c *gin.Context) {
	var req locationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "token, latitude and longitude are required")
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		respondError(c, http.StatusBadRequest, "bad_request", "coordinates out of range")
		return
	}

	// Stored at 2-decimal precision to bound location accuracy to ~1 km.
	obs := &models.Observer{
		Token:       req.Token,
		Latitude:    geo.Round(req.Latitude, geo.CachePrecision),
		Longitude:   geo.Round(req.Longitude, geo.CachePrecision),
		LastUpdated: h.clock.Now(),
		IsActive:    true,
	}
	if err := h.observers.Upsert(c.Request.Context(), obs); err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to store location")
		return
	}

	respondData(c, h.clock.Now(), gin.H{"registered": true})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseCoords(c *gin.Context) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil || lat < -90 || lat > 90 {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid latitude")
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil || lon < -180 || lon > 180 {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid longitude")
		return 0, 0, false
	}
	return lat, lon, true
}

// quietSummary is the stub returned during quiet hours: every direction
// unlikely with zero score, and no upstream call made.
func quietSummary() gin.H {
	summaries := make([]directionSummary, 0, len(models.Directions))
	for _, dir := range models.Directions {
		summaries = append(summaries, directionSummary{
			Direction: dir,
			RiskLevel: models.RiskNone,
		})
	}
	return gin.H{
		"quiet_hours": true,
		"directions":  summaries,
	}
}
