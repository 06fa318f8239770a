package tracking

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
)

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

func TestEmit_PostsEventEnvelope(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	emitter := NewHTTPEmitterWithEndpoint(server.URL, time.Second, newTestLogger(t))
	err := emitter.Emit(&analytics.Event{
		EventType: analytics.EventLeadCapture,
		EventData: map[string]any{"profit": 100.0},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "lead_capture", gotBody["eventType"])
	assert.Equal(t, map[string]any{"profit": 100.0}, gotBody["eventData"])
}

func TestEmit_NonOKStatusIsTrackingError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		emitter := NewHTTPEmitterWithEndpoint(server.URL, time.Second, newTestLogger(t))
		err := emitter.Emit(&analytics.Event{EventType: analytics.EventCalculatorUse, EventData: map[string]any{}})

		assert.ErrorIs(t, err, apperrors.ErrAnalyticsTracking)
		assert.EqualError(t, err, "Failed to track analytics event")
		server.Close()
	}
}

func TestEmit_TransportFailureIsTrackingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	emitter := NewHTTPEmitterWithEndpoint(server.URL, time.Second, newTestLogger(t))
	err := emitter.Emit(&analytics.Event{EventType: analytics.EventResourceView, EventData: map[string]any{}})

	assert.ErrorIs(t, err, apperrors.ErrAnalyticsTracking)
}

func TestEmit_SingleAttempt(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	emitter := NewHTTPEmitterWithEndpoint(server.URL, time.Second, newTestLogger(t))
	_ = emitter.Emit(&analytics.Event{EventType: analytics.EventLeadCapture, EventData: map[string]any{}})

	assert.Equal(t, 1, attempts)
}
