// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

// LeadHandlers contains the lead funnel HTTP handlers
type LeadHandlers struct {
	captureService *services.LeadCaptureService
	metricsService *services.LeadMetricsService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// EvaluateRequest represents the structure for calculator evaluation requests
type EvaluateRequest struct {
	CalculatorType string         `json:"calculatorType"`
	Results        map[string]any `json:"results"`
}

// NewLeadHandlers creates lead handlers with injected dependencies
func NewLeadHandlers(captureService *services.LeadCaptureService, metricsService *services.LeadMetricsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LeadHandlers {
	return &LeadHandlers{
		captureService: captureService,
		metricsService: metricsService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostEvaluate handles POST /api/v1/leads/evaluate - scores calculator
// results and decides whether the capture form is shown
func (h *LeadHandlers) PostEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	evaluation := h.captureService.Evaluate(req.CalculatorType, req.Results)
	c.JSON(http.StatusOK, evaluation)
}

// PostCaptureLead handles POST /api/v1/leads/capture
func (h *LeadHandlers) PostCaptureLead(c *gin.Context) {
	start := time.Now()

	var req services.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Funnel().Error("Capture request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	lead, err := h.captureService.CaptureLead(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		default:
			// Analytics and store failures are internal to the caller.
			h.logger.Funnel().Error("Lead capture failed", "error", err.Error(), "duration", time.Since(start))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	h.logger.Funnel().Info("Lead captured", "leadId", lead.ID, "score", lead.Score, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lead captured successfully"})
}

// GetLeadMetrics handles GET /api/v1/leads/metrics
func (h *LeadHandlers) GetLeadMetrics(c *gin.Context) {
	metrics, err := h.metricsService.ComputeOverallMetrics()
	if err != nil {
		h.logger.Analytics().Error("Lead metrics aggregation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overallMetrics": metrics})
}
