package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError + 4,
	})
	require.NoError(t, err)
	return logger
}

type stubEmitter struct {
	err    error
	events []*analytics.Event
}

func (e *stubEmitter) Emit(event *analytics.Event) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

type memLeadRepo struct {
	stored []*leads.Lead
	err    error
}

func (r *memLeadRepo) Store(lead *leads.Lead) error {
	if r.err != nil {
		return r.err
	}
	r.stored = append(r.stored, lead)
	return nil
}

func (r *memLeadRepo) FindByID(id string) (*leads.Lead, error) { return nil, nil }
func (r *memLeadRepo) FindAll() ([]*leads.Lead, error)         { return r.stored, nil }

func newLeadRouter(t *testing.T, emitter *stubEmitter, repo *memLeadRepo) *gin.Engine {
	t.Helper()
	logger := newTestLogger(t)

	scoring := services.NewScoringService(logger, nil)
	analyticsService := services.NewAnalyticsService(emitter, logger, nil)
	captureService := services.NewLeadCaptureService(scoring, analyticsService, repo, nil, nil, logger, nil)
	metricsService := services.NewLeadMetricsService(repo, logger, nil)
	h := NewLeadHandlers(captureService, metricsService, logger, nil)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})
	r.POST("/api/v1/leads/evaluate", h.PostEvaluate)
	r.POST("/api/v1/leads/capture", h.PostCaptureLead)
	r.GET("/api/v1/leads/metrics", h.GetLeadMetrics)
	return r
}

func captureBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"email":          "test@example.com",
		"name":           "Test User",
		"calculatorType": "fba-profit",
		"score":          90,
		"results":        map[string]any{"profit": 100, "margin": 0.5},
	})
	return body
}

func TestPostCaptureLead_Success(t *testing.T) {
	emitter := &stubEmitter{}
	repo := &memLeadRepo{}
	router := newLeadRouter(t, emitter, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/capture", bytes.NewReader(captureBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "message": "Lead captured successfully"}`, w.Body.String())

	require.Len(t, emitter.events, 1)
	assert.Equal(t, analytics.EventLeadCapture, emitter.events[0].EventType)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, "test@example.com", repo.stored[0].Email)
}

func TestPostCaptureLead_MissingFields(t *testing.T) {
	emitter := &stubEmitter{}
	repo := &memLeadRepo{}
	router := newLeadRouter(t, emitter, repo)

	body, _ := json.Marshal(map[string]any{
		"email": "test@example.com",
		"score": 90,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/capture", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "Missing required fields"}`, w.Body.String())
	assert.Empty(t, emitter.events)
	assert.Empty(t, repo.stored)
}

func TestPostCaptureLead_AnalyticsFailureIsInternalError(t *testing.T) {
	emitter := &stubEmitter{err: apperrors.ErrAnalyticsTracking}
	repo := &memLeadRepo{}
	router := newLeadRouter(t, emitter, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/capture", bytes.NewReader(captureBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "Internal server error"}`, w.Body.String())
	assert.Empty(t, repo.stored, "store must not proceed after an emit failure")
}

func TestPostCaptureLead_WrongMethodIs405(t *testing.T) {
	router := newLeadRouter(t, &stubEmitter{}, &memLeadRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/capture", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "Method not allowed"}`, w.Body.String())
}

func TestPostEvaluate_ThresholdDecidesFormVisibility(t *testing.T) {
	router := newLeadRouter(t, &stubEmitter{}, &memLeadRepo{})

	body, _ := json.Marshal(map[string]any{
		"calculatorType": "fba-profit",
		"results":        map[string]any{"productCost": 10, "shippingCost": 5, "amazonFees": 15, "sellingPrice": 100},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/evaluate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var evaluation services.Evaluation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evaluation))
	assert.Equal(t, 90, evaluation.Score)
	assert.True(t, evaluation.ShowCaptureForm)
}

func TestGetLeadMetrics_WrapsOverallMetrics(t *testing.T) {
	repo := &memLeadRepo{stored: []*leads.Lead{
		{ID: "1", Email: "a@b.c", Status: leads.StatusNew, Score: 90, ExpectedValue: 1000, Source: "calculator"},
	}}
	router := newLeadRouter(t, &stubEmitter{}, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		OverallMetrics *services.AggregatedLeadMetrics `json:"overallMetrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotNil(t, payload.OverallMetrics)
	assert.Equal(t, 1, payload.OverallMetrics.TotalLeads)
	assert.Equal(t, 1, payload.OverallMetrics.ActiveLeads)
}
