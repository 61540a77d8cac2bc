package hub

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yuzumeet/meet-auth-gateway/internal/logging"
)

const (
	// MessageTypeStateUpdate replaces the shared state snapshot and fans it
	// out to every other connected device. Last write wins.
	MessageTypeStateUpdate = "STATE_UPDATE"
	// MessageTypeRequestState asks the hub for the current snapshot, e.g.
	// when a device reconnects or a tab becomes visible again.
	MessageTypeRequestState = "REQUEST_STATE"

	clientSendBuffer = 16
)

// Message is the unit exchanged over the state channel. The payload is an
// opaque state blob owned by the front-end; the hub never interprets it.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub relays the shared meeting/mute/video state between connected devices.
// Delivery is best-effort: slow consumers get messages dropped rather than
// blocking the hub. The snapshot is not authoritative state, just the last
// write observed.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	state   json.RawMessage
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func New(allowAllOrigins bool) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
	}
	if allowAllOrigins {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := logging.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
	h.register(c)
	defer h.unregister(c)

	go c.writeLoop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			l.WithError(err).Debug("dropping malformed state message")
			continue
		}

		switch msg.Type {
		case MessageTypeStateUpdate:
			h.setState(msg.Payload)
			h.broadcast(data, c)
		case MessageTypeRequestState:
			if snapshot := h.snapshotMessage(); snapshot != nil {
				c.trySend(snapshot)
			}
		default:
			l.WithField("type", msg.Type).Debug("dropping unknown state message")
		}
	}
}

// ClientCount reports how many devices are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	snapshot := h.snapshotMessageLocked()
	h.mu.Unlock()

	// A device joining mid-meeting receives the last known state right away.
	if snapshot != nil {
		c.trySend(snapshot)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	c.conn.Close()
}

func (h *Hub) setState(payload json.RawMessage) {
	h.mu.Lock()
	h.state = payload
	h.mu.Unlock()
}

func (h *Hub) broadcast(data []byte, sender *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c == sender {
			continue
		}
		c.trySend(data)
	}
}

func (h *Hub) snapshotMessage() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotMessageLocked()
}

func (h *Hub) snapshotMessageLocked() []byte {
	if h.state == nil {
		return nil
	}
	b, err := json.Marshal(Message{Type: MessageTypeStateUpdate, Payload: h.state})
	if err != nil {
		return nil
	}
	return b
}

func (c *client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		// Buffer full: drop for this consumer instead of blocking the hub.
	}
}

func (c *client) writeLoop() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
