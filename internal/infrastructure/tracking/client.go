// Package tracking provides the HTTP transport for forwarding analytics
// events to the downstream collector.
package tracking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// Emitter forwards analytics events to a collector.
type Emitter interface {
	Emit(event *analytics.Event) error
}

// HTTPEmitter is the HTTP-based implementation of the Emitter.
// Delivery is single-attempt: the collector either accepts the event
// or the emit fails, there are no retries and no buffering.
type HTTPEmitter struct {
	endpointURL string
	client      *http.Client
	logger      *logging.ChanneledLogger
}

// NewHTTPEmitter creates a new emitter targeting the configured collector.
func NewHTTPEmitter(logger *logging.ChanneledLogger) *HTTPEmitter {
	return &HTTPEmitter{
		endpointURL: config.TrackingEndpointURL,
		client:      &http.Client{Timeout: config.TrackingTimeout},
		logger:      logger,
	}
}

// NewHTTPEmitterWithEndpoint creates an emitter for an explicit endpoint.
func NewHTTPEmitterWithEndpoint(endpointURL string, timeout time.Duration, logger *logging.ChanneledLogger) *HTTPEmitter {
	return &HTTPEmitter{
		endpointURL: endpointURL,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Emit posts the event to the collector. Any transport failure or
// non-2xx response is reported as apperrors.ErrAnalyticsTracking.
func (e *HTTPEmitter) Emit(event *analytics.Event) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		e.logger.Analytics().Error("Failed to serialize analytics event", "error", err.Error(), "eventType", event.EventType)
		return apperrors.ErrAnalyticsTracking
	}

	resp, err := e.client.Post(e.endpointURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		e.logger.Analytics().Error("Analytics emit failed", "error", err.Error(), "eventType", event.EventType, "endpoint", e.endpointURL, "duration", time.Since(start))
		return apperrors.ErrAnalyticsTracking
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Analytics().Error("Analytics collector rejected event", "status", resp.StatusCode, "eventType", event.EventType, "endpoint", e.endpointURL, "duration", time.Since(start))
		return apperrors.ErrAnalyticsTracking
	}

	e.logger.Analytics().Debug("Analytics event emitted", "eventType", event.EventType, "status", resp.StatusCode, "duration", time.Since(start))
	return nil
}
