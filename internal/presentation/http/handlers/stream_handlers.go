package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sellermetrics/leadstack-go/internal/infrastructure/messaging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 54 * time.Second
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandlers contains the live funnel stream HTTP handlers
type StreamHandlers struct {
	broadcaster *messaging.FunnelBroadcaster
	logger      *logging.ChanneledLogger
}

// NewStreamHandlers creates stream handlers with injected dependencies
func NewStreamHandlers(broadcaster *messaging.FunnelBroadcaster, logger *logging.ChanneledLogger) *StreamHandlers {
	return &StreamHandlers{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// GetFunnelStream handles GET /api/v1/analytics/stream - upgrades to a
// websocket pushing live funnel activity to the admin dashboard
func (h *StreamHandlers) GetFunnelStream(c *gin.Context) {
	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Stream().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.FunnelClient{
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// writePump drains the client's send channel onto the socket.
func (h *StreamHandlers) writePump(client *messaging.FunnelClient) {
	ticker := time.NewTicker(streamPingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters on disconnect.
func (h *StreamHandlers) readPump(client *messaging.FunnelClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(streamPongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(streamPongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
