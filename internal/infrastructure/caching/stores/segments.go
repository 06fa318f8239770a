// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/session"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// VisitorSegmentStore implements in-memory visitor segment caching.
// Segments are keyed by session ID and expire after config.SegmentTTL
// of inactivity.
type VisitorSegmentStore struct {
	segments map[string]*session.VisitorSegment
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewVisitorSegmentStore creates a new visitor segment cache store
func NewVisitorSegmentStore(logger *logging.ChanneledLogger) *VisitorSegmentStore {
	if logger != nil {
		logger.Cache().Info("Initializing visitor segment cache store")
	}
	return &VisitorSegmentStore{
		segments: make(map[string]*session.VisitorSegment),
		logger:   logger,
	}
}

// Create initializes a fresh segment for a session. An existing live
// segment for the same session is returned unchanged.
func (vs *VisitorSegmentStore) Create(sessionID string) *session.VisitorSegment {
	start := time.Now()
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if existing, found := vs.segments[sessionID]; found && !vs.isExpired(existing) {
		if vs.logger != nil {
			vs.logger.Cache().Debug("Cache operation", "operation", "create", "type", "segment", "sessionId", sessionID, "hit", true, "reason", "already_exists", "duration", time.Since(start))
		}
		return existing
	}

	segment := session.NewVisitorSegment(sessionID)
	vs.segments[sessionID] = segment

	if vs.logger != nil {
		vs.logger.Cache().Debug("Cache operation", "operation", "create", "type", "segment", "sessionId", sessionID, "duration", time.Since(start))
	}
	return segment
}

// Get retrieves a segment by session ID. Expired segments are treated
// as misses.
func (vs *VisitorSegmentStore) Get(sessionID string) (*session.VisitorSegment, bool) {
	start := time.Now()
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	segment, found := vs.segments[sessionID]
	if !found {
		if vs.logger != nil {
			vs.logger.Cache().Debug("Cache operation", "operation", "get", "type", "segment", "sessionId", sessionID, "hit", false, "duration", time.Since(start))
		}
		return nil, false
	}

	if vs.isExpired(segment) {
		if vs.logger != nil {
			vs.logger.Cache().Debug("Cache operation", "operation", "get", "type", "segment", "sessionId", sessionID, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	if vs.logger != nil {
		vs.logger.Cache().Debug("Cache operation", "operation", "get", "type", "segment", "sessionId", sessionID, "hit", true, "duration", time.Since(start))
	}
	return segment, true
}

// LogInteraction records an interaction against the session's segment,
// creating the segment if none exists, and re-derives the engagement
// level from the interaction count.
func (vs *VisitorSegmentStore) LogInteraction(sessionID, action string, data map[string]any) *session.VisitorSegment {
	start := time.Now()
	vs.mu.Lock()
	defer vs.mu.Unlock()

	segment, found := vs.segments[sessionID]
	if !found || vs.isExpired(segment) {
		segment = session.NewVisitorSegment(sessionID)
		vs.segments[sessionID] = segment
	}

	segment.RecordInteraction(action, data)
	vs.bumpEngagement(segment)

	if vs.logger != nil {
		vs.logger.Cache().Debug("Cache operation", "operation", "log_interaction", "type", "segment", "sessionId", sessionID, "action", action, "interactionCount", segment.InteractionCount(), "engagementLevel", segment.EngagementLevel, "duration", time.Since(start))
	}
	return segment
}

// SetEmailSubscriberStatus flags the session's segment as an email
// subscriber, creating the segment if none exists.
func (vs *VisitorSegmentStore) SetEmailSubscriberStatus(sessionID string, isSubscriber bool) *session.VisitorSegment {
	start := time.Now()
	vs.mu.Lock()
	defer vs.mu.Unlock()

	segment, found := vs.segments[sessionID]
	if !found || vs.isExpired(segment) {
		segment = session.NewVisitorSegment(sessionID)
		vs.segments[sessionID] = segment
	}

	segment.IsEmailSubscriber = isSubscriber
	segment.LastActive = time.Now().UTC()

	if vs.logger != nil {
		vs.logger.Cache().Debug("Cache operation", "operation", "set_subscriber", "type", "segment", "sessionId", sessionID, "isSubscriber", isSubscriber, "duration", time.Since(start))
	}
	return segment
}

// SetPersona pins a determined persona onto the session's segment.
func (vs *VisitorSegmentStore) SetPersona(sessionID, personaID string) (*session.VisitorSegment, bool) {
	start := time.Now()
	vs.mu.Lock()
	defer vs.mu.Unlock()

	segment, found := vs.segments[sessionID]
	if !found || vs.isExpired(segment) {
		if vs.logger != nil {
			vs.logger.Cache().Debug("Cache operation", "operation", "set_persona", "type", "segment", "sessionId", sessionID, "hit", false, "duration", time.Since(start))
		}
		return nil, false
	}

	segment.DeterminedPersonaID = &personaID
	segment.LastActive = time.Now().UTC()

	if vs.logger != nil {
		vs.logger.Cache().Debug("Cache operation", "operation", "set_persona", "type", "segment", "sessionId", sessionID, "personaId", personaID, "duration", time.Since(start))
	}
	return segment, true
}

// Remove deletes a segment.
func (vs *VisitorSegmentStore) Remove(sessionID string) {
	start := time.Now()
	vs.mu.Lock()
	defer vs.mu.Unlock()

	delete(vs.segments, sessionID)

	if vs.logger != nil {
		vs.logger.Cache().Debug("Cache operation", "operation", "remove", "type", "segment", "sessionId", sessionID, "duration", time.Since(start))
	}
}

// Cleanup evicts every expired segment and returns the eviction count.
func (vs *VisitorSegmentStore) Cleanup() int {
	start := time.Now()
	vs.mu.Lock()
	defer vs.mu.Unlock()

	evicted := 0
	for sessionID, segment := range vs.segments {
		if vs.isExpired(segment) {
			delete(vs.segments, sessionID)
			evicted++
		}
	}

	if vs.logger != nil {
		vs.logger.Cache().Info("Segment cache cleanup", "evicted", evicted, "remaining", len(vs.segments), "duration", time.Since(start))
	}
	return evicted
}

// Count returns the number of cached segments, expired or not.
func (vs *VisitorSegmentStore) Count() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.segments)
}

// GetSummary returns cache status summary for debugging
func (vs *VisitorSegmentStore) GetSummary() map[string]any {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	byLevel := map[session.EngagementLevel]int{}
	subscribers := 0
	for _, segment := range vs.segments {
		byLevel[segment.EngagementLevel]++
		if segment.IsEmailSubscriber {
			subscribers++
		}
	}

	return map[string]any{
		"segments":    len(vs.segments),
		"low":         byLevel[session.EngagementLow],
		"medium":      byLevel[session.EngagementMedium],
		"high":        byLevel[session.EngagementHigh],
		"subscribers": subscribers,
	}
}

// isExpired reports whether a segment has been idle past the TTL.
// Callers must hold at least a read lock.
func (vs *VisitorSegmentStore) isExpired(segment *session.VisitorSegment) bool {
	return time.Since(segment.LastActive) > config.SegmentTTL
}

// bumpEngagement re-derives the engagement level from interaction count.
// MUST be called with vs.mu held.
func (vs *VisitorSegmentStore) bumpEngagement(segment *session.VisitorSegment) {
	count := segment.InteractionCount()
	switch {
	case count >= config.HighlyEngagedInteractions:
		segment.EngagementLevel = session.EngagementHigh
	case count >= config.EngagedInteractions:
		segment.EngagementLevel = session.EngagementMedium
	default:
		segment.EngagementLevel = session.EngagementLow
	}
}
