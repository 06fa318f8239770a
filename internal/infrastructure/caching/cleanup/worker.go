// Package cleanup provides the background segment eviction worker
package cleanup

import (
	"context"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/infrastructure/caching/stores"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// Worker handles background segment cache cleanup operations
type Worker struct {
	segments *stores.VisitorSegmentStore
	interval time.Duration
	logger   *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(segments *stores.VisitorSegmentStore, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		segments: segments,
		interval: config.SegmentCleanupInterval,
		logger:   logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Cache().Info("Segment cleanup worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Segment cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()
	evicted := w.segments.Cleanup()
	if evicted > 0 {
		w.logger.Cache().Info("Periodic segment cleanup completed", "evicted", evicted, "duration", time.Since(start))
	}
}
