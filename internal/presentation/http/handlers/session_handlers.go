package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

const sessionHeader = "X-LeadStack-Session-ID"

// SessionHandlers contains the visit, segment state, and
// personalization HTTP handlers
type SessionHandlers struct {
	sessionService         *services.SessionService
	personalizationService *services.PersonalizationService
	logger                 *logging.ChanneledLogger
	perfTracker            *performance.Tracker
}

// StateRequest represents the structure for interaction state requests
type StateRequest struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data,omitempty"`
}

// SubscribeRequest represents the structure for subscriber status requests
type SubscribeRequest struct {
	IsSubscriber bool `json:"isSubscriber"`
}

// PersonaRequest represents the structure for persona assignment requests
type PersonaRequest struct {
	PersonaID string `json:"personaId"`
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(sessionService *services.SessionService, personalizationService *services.PersonalizationService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionHandlers {
	return &SessionHandlers{
		sessionService:         sessionService,
		personalizationService: personalizationService,
		logger:                 logger,
		perfTracker:            perfTracker,
	}
}

func (h *SessionHandlers) sessionID(c *gin.Context) string {
	return c.GetHeader(sessionHeader)
}

// PostVisit handles POST /api/v1/auth/visit - registers an arrival and
// returns the session the client should carry on subsequent requests
func (h *SessionHandlers) PostVisit(c *gin.Context) {
	var req services.StartVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = h.sessionID(c)
	}

	visit, segment, err := h.sessionService.StartVisit(&req)
	if err != nil {
		h.logger.Funnel().Error("Visit registration failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitId":   visit.ID,
		"sessionId": visit.SessionID,
		"segment":   segment,
	})
}

// PostState handles POST /api/v1/state - records an interaction and
// returns the refreshed segment with the content variant to render
func (h *SessionHandlers) PostState(c *gin.Context) {
	sessionID := h.sessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	segment := h.sessionService.LogInteraction(sessionID, req.Action, req.Data)
	variant := h.personalizationService.SelectVariant(segment)

	c.JSON(http.StatusOK, gin.H{
		"segment": segment,
		"variant": variant,
	})
}

// GetPersonalization handles GET /api/v1/personalization - variant
// selection for the current session, never an error
func (h *SessionHandlers) GetPersonalization(c *gin.Context) {
	segment, _ := h.sessionService.GetSegment(h.sessionID(c))
	variant := h.personalizationService.SelectVariant(segment)
	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

// PostSubscribe handles POST /api/v1/state/subscribe
func (h *SessionHandlers) PostSubscribe(c *gin.Context) {
	sessionID := h.sessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	segment := h.sessionService.SetEmailSubscriberStatus(sessionID, req.IsSubscriber)
	c.JSON(http.StatusOK, gin.H{"segment": segment})
}

// PostPersona handles POST /api/v1/state/persona
func (h *SessionHandlers) PostPersona(c *gin.Context) {
	sessionID := h.sessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	var req PersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PersonaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	segment, found := h.sessionService.SetPersona(sessionID, req.PersonaID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"segment": segment})
}

// DeleteSession handles DELETE /api/v1/state - discards the session's segment
func (h *SessionHandlers) DeleteSession(c *gin.Context) {
	sessionID := h.sessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	h.sessionService.EndSession(sessionID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
