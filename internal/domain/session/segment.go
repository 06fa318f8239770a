// Package session provides domain entities for visitor segmentation state.
// A segment is session-scoped: created at first visit, mutated by
// interaction logging, and discarded when the session ends. Durable
// persistence of segmentation data is a downstream concern.
package session

import "time"

// EngagementLevel is the coarse activity tier of a visitor.
type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "low"
	EngagementMedium EngagementLevel = "medium"
	EngagementHigh   EngagementLevel = "high"
)

// Interaction is a single observed visitor action within a session.
type Interaction struct {
	Action     string         `json:"action"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// VisitorSegment holds the personalization state for one browser session.
type VisitorSegment struct {
	SessionID           string          `json:"sessionId"`
	DeterminedPersonaID *string         `json:"determinedPersonaId"`
	EngagementLevel     EngagementLevel `json:"engagementLevel"`
	IsEmailSubscriber   bool            `json:"isEmailSubscriber"`
	Interactions        []Interaction   `json:"interactions"`
	CreatedAt           time.Time       `json:"createdAt"`
	LastActive          time.Time       `json:"lastActive"`
}

// NewVisitorSegment creates a segment with session-start defaults.
func NewVisitorSegment(sessionID string) *VisitorSegment {
	now := time.Now().UTC()
	return &VisitorSegment{
		SessionID:       sessionID,
		EngagementLevel: EngagementLow,
		CreatedAt:       now,
		LastActive:      now,
	}
}

// RecordInteraction appends an interaction and refreshes activity time.
func (vs *VisitorSegment) RecordInteraction(action string, data map[string]any) {
	now := time.Now().UTC()
	vs.Interactions = append(vs.Interactions, Interaction{
		Action:     action,
		Data:       data,
		OccurredAt: now,
	})
	vs.LastActive = now
}

// InteractionCount returns how many interactions the session has logged.
func (vs *VisitorSegment) InteractionCount() int {
	return len(vs.Interactions)
}
