package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/messaging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

// AnalyticsHandlers contains the analytics HTTP handlers
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	dashboardService *services.DashboardService
	broadcaster      *messaging.FunnelBroadcaster
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// TrackRequest represents the structure for analytics track requests
type TrackRequest struct {
	EventType string         `json:"eventType"`
	EventData map[string]any `json:"eventData"`
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, dashboardService *services.DashboardService, broadcaster *messaging.FunnelBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		dashboardService: dashboardService,
		broadcaster:      broadcaster,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// PostTrack handles POST /api/v1/analytics/track
func (h *AnalyticsHandlers) PostTrack(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	eventType := analytics.EventType(req.EventType)
	if !analytics.KnownEventTypes[eventType] || req.EventData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	if err := h.analyticsService.Track(c.Request.Context(), eventType, req.EventData); err != nil {
		h.logger.Analytics().Error("Analytics track failed", "eventType", req.EventType, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastEventTracked(req.EventType)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Analytics event tracked successfully"})
}

// GetDashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandlers) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.ComputeSummary()
	if err != nil {
		h.logger.Analytics().Error("Dashboard summary failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
