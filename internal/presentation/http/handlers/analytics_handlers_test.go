package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
)

func newAnalyticsRouter(t *testing.T, emitter *stubEmitter) *gin.Engine {
	t.Helper()
	logger := newTestLogger(t)

	analyticsService := services.NewAnalyticsService(emitter, logger, nil)
	h := NewAnalyticsHandlers(analyticsService, nil, nil, logger, nil)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})
	r.POST("/api/v1/analytics/track", h.PostTrack)
	return r
}

func postTrack(router *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPostTrack_Success(t *testing.T) {
	emitter := &stubEmitter{}
	router := newAnalyticsRouter(t, emitter)

	w := postTrack(router, map[string]any{
		"eventType": "calculator_use",
		"eventData": map[string]any{"calculator": "fba-profit"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "message": "Analytics event tracked successfully"}`, w.Body.String())

	require.Len(t, emitter.events, 1)
	assert.Equal(t, analytics.EventCalculatorUse, emitter.events[0].EventType)
}

func TestPostTrack_MissingFields(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing eventType", map[string]any{"eventData": map[string]any{}}},
		{"missing eventData", map[string]any{"eventType": "lead_capture"}},
		{"unknown eventType", map[string]any{"eventType": "page_scroll", "eventData": map[string]any{}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			emitter := &stubEmitter{}
			router := newAnalyticsRouter(t, emitter)

			w := postTrack(router, tc.payload)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, emitter.events)
		})
	}
}

func TestPostTrack_EmitterFailureIsInternalError(t *testing.T) {
	emitter := &stubEmitter{err: apperrors.ErrAnalyticsTracking}
	router := newAnalyticsRouter(t, emitter)

	w := postTrack(router, map[string]any{
		"eventType": "resource_view",
		"eventData": map[string]any{"slug": "fba-guide"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "Internal server error"}`, w.Body.String())
}

func TestPostTrack_WrongMethodIs405(t *testing.T) {
	router := newAnalyticsRouter(t, &stubEmitter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/track", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "Method not allowed"}`, w.Body.String())
}
