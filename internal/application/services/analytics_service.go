package services

import (
	"context"
	"sync"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/analytics"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/tracking"
)

// AnalyticsService forwards funnel events to the tracking collector.
// Every typed wrapper funnels into a single Track call so the event
// envelope stays uniform. Successful emits are counted per type for
// the admin dashboard; the collector itself has no read path.
type AnalyticsService struct {
	emitter     tracking.Emitter
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	countsMu sync.Mutex
	counts   map[analytics.EventType]int64
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(emitter tracking.Emitter, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsService {
	return &AnalyticsService{
		emitter:     emitter,
		logger:      logger,
		perfTracker: perfTracker,
		counts:      make(map[analytics.EventType]int64),
	}
}

// Track emits a single analytics event. One attempt, no retry; the
// caller decides whether a failed emit aborts its own operation.
func (s *AnalyticsService) Track(ctx context.Context, eventType analytics.EventType, eventData map[string]any) error {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperationWithContext(ctx, "analytics:emit")
		marker.AddMetadata("eventType", string(eventType))
	}

	err := s.emitter.Emit(&analytics.Event{
		EventType: eventType,
		EventData: eventData,
	})

	if marker != nil {
		marker.SetSuccess(err == nil)
		if err != nil {
			marker.SetError(err)
		}
		s.perfTracker.CompleteOperation(marker)
	}

	if err != nil {
		s.logger.Analytics().Error("Event tracking failed", "eventType", eventType, "error", err.Error(), "duration", time.Since(start))
		return err
	}

	s.countsMu.Lock()
	s.counts[eventType]++
	s.countsMu.Unlock()

	s.logger.Analytics().Debug("Event tracked", "eventType", eventType, "duration", time.Since(start))
	return nil
}

// EventCounts returns the number of successful emissions per event type
// since process start.
func (s *AnalyticsService) EventCounts() map[string]int64 {
	s.countsMu.Lock()
	defer s.countsMu.Unlock()

	counts := make(map[string]int64, len(s.counts))
	for eventType, count := range s.counts {
		counts[string(eventType)] = count
	}
	return counts
}

// TrackCalculatorUse records a completed calculator interaction.
func (s *AnalyticsService) TrackCalculatorUse(ctx context.Context, eventData map[string]any) error {
	return s.Track(ctx, analytics.EventCalculatorUse, eventData)
}

// TrackLeadCapture records a lead capture submission.
func (s *AnalyticsService) TrackLeadCapture(ctx context.Context, eventData map[string]any) error {
	return s.Track(ctx, analytics.EventLeadCapture, eventData)
}

// TrackResourceView records a resource page view.
func (s *AnalyticsService) TrackResourceView(ctx context.Context, eventData map[string]any) error {
	return s.Track(ctx, analytics.EventResourceView, eventData)
}
