// Package messaging provides the live funnel stream broadcast to
// connected admin dashboard clients.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/caching/stores"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
)

// FunnelClient represents a single connected dashboard client.
type FunnelClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// FunnelTickPayload is the periodic snapshot pushed to every client.
type FunnelTickPayload struct {
	Kind        string    `json:"kind"` // always "tick"
	Timestamp   time.Time `json:"timestamp"`
	Segments    int       `json:"segments"`
	Low         int       `json:"low"`
	Medium      int       `json:"medium"`
	High        int       `json:"high"`
	Subscribers int       `json:"subscribers"`
}

// LeadCapturedPayload is pushed immediately when a lead is stored.
type LeadCapturedPayload struct {
	Kind           string    `json:"kind"` // always "lead_captured"
	Timestamp      time.Time `json:"timestamp"`
	LeadID         string    `json:"leadId"`
	CalculatorType string    `json:"calculatorType"`
	Score          int       `json:"score"`
}

// FunnelBroadcaster manages all connected dashboard clients and pushes
// live funnel activity to them.
type FunnelBroadcaster struct {
	clients    map[*FunnelClient]bool
	register   chan *FunnelClient
	unregister chan *FunnelClient
	events     chan []byte
	segments   *stores.VisitorSegmentStore
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewFunnelBroadcaster creates a new broadcaster instance.
func NewFunnelBroadcaster(segments *stores.VisitorSegmentStore, logger *logging.ChanneledLogger) *FunnelBroadcaster {
	return &FunnelBroadcaster{
		clients:    make(map[*FunnelClient]bool),
		register:   make(chan *FunnelClient),
		unregister: make(chan *FunnelClient),
		events:     make(chan []byte, 64),
		segments:   segments,
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *FunnelBroadcaster) Run() {
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.Stream().Info("Funnel stream client registered", "clients", b.clientCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.Stream().Info("Funnel stream client unregistered", "clients", b.clientCount())

		case message := <-b.events:
			b.fanOut(message)

		case <-ticker.C:
			b.broadcastTick()
		}
	}
}

// Register queues a client for registration.
func (b *FunnelBroadcaster) Register(client *FunnelClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *FunnelBroadcaster) Unregister(client *FunnelClient) {
	b.unregister <- client
}

// BroadcastLeadCaptured pushes a lead capture event to every connected
// client. The push is non-blocking; a full event buffer drops the event.
func (b *FunnelBroadcaster) BroadcastLeadCaptured(lead *leads.Lead) {
	payload := LeadCapturedPayload{
		Kind:           "lead_captured",
		Timestamp:      time.Now().UTC(),
		LeadID:         lead.ID,
		CalculatorType: lead.CalculatorType,
		Score:          lead.Score,
	}

	message, err := json.Marshal(payload)
	if err != nil {
		b.logger.Stream().Error("Failed to marshal lead capture payload", "error", err.Error(), "leadId", lead.ID)
		return
	}

	select {
	case b.events <- message:
	default:
		b.logger.Stream().Warn("Funnel event buffer full, dropping lead capture event", "leadId", lead.ID)
	}
}

// EventTrackedPayload is pushed when an analytics event is accepted.
type EventTrackedPayload struct {
	Kind      string    `json:"kind"` // always "event_tracked"
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"eventType"`
}

// BroadcastEventTracked pushes a tracked analytics event to every
// connected client. Non-blocking like BroadcastLeadCaptured.
func (b *FunnelBroadcaster) BroadcastEventTracked(eventType string) {
	payload := EventTrackedPayload{
		Kind:      "event_tracked",
		Timestamp: time.Now().UTC(),
		EventType: eventType,
	}

	message, err := json.Marshal(payload)
	if err != nil {
		b.logger.Stream().Error("Failed to marshal event tracked payload", "error", err.Error(), "eventType", eventType)
		return
	}

	select {
	case b.events <- message:
	default:
		b.logger.Stream().Warn("Funnel event buffer full, dropping tracked event", "eventType", eventType)
	}
}

// broadcastTick pushes a segment snapshot to every connected client.
func (b *FunnelBroadcaster) broadcastTick() {
	if b.clientCount() == 0 {
		return
	}

	summary := b.segments.GetSummary()
	payload := FunnelTickPayload{
		Kind:        "tick",
		Timestamp:   time.Now().UTC(),
		Segments:    intFromSummary(summary, "segments"),
		Low:         intFromSummary(summary, "low"),
		Medium:      intFromSummary(summary, "medium"),
		High:        intFromSummary(summary, "high"),
		Subscribers: intFromSummary(summary, "subscribers"),
	}

	message, err := json.Marshal(payload)
	if err != nil {
		b.logger.Stream().Error("Failed to marshal funnel tick payload", "error", err.Error())
		return
	}

	b.fanOut(message)
}

// fanOut delivers a message to every client, skipping slow consumers.
func (b *FunnelBroadcaster) fanOut(message []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

func (b *FunnelBroadcaster) clientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func intFromSummary(summary map[string]any, key string) int {
	if v, ok := summary[key].(int); ok {
		return v
	}
	return 0
}
