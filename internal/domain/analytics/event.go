// Package analytics provides the analytics event types emitted by the funnel.
package analytics

// EventType identifies the kind of tracked interaction.
type EventType string

const (
	EventCalculatorUse EventType = "calculator_use"
	EventLeadCapture   EventType = "lead_capture"
	EventResourceView  EventType = "resource_view"
)

// KnownEventTypes lists every event type the tracking endpoint accepts.
var KnownEventTypes = map[EventType]bool{
	EventCalculatorUse: true,
	EventLeadCapture:   true,
	EventResourceView:  true,
}

// Event is the fixed envelope forwarded to the tracking endpoint.
// Events are immutable and fire-and-forget; there is no read path.
type Event struct {
	EventType EventType      `json:"eventType"`
	EventData map[string]any `json:"eventData"`
}
