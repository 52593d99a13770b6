package realtime

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// Event is the envelope every pushed payload travels in.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub tracks open websocket connections per user and fans events out to
// them. A user may hold several connections (multiple tabs); pushing to an
// offline user is a no-op.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]bool
	log   *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		conns: map[string]map[*websocket.Conn]bool{},
		log:   log,
	}
}

// Register adds a connection for the user.
func (h *Hub) Register(userID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = map[*websocket.Conn]bool{}
	}
	h.conns[userID][c] = true
	h.log.WithField("user_id", userID).Debug("Websocket connected")
}

// Unregister drops a connection. Safe to call for connections that were
// never registered.
func (h *Hub) Unregister(userID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
	h.log.WithField("user_id", userID).Debug("Websocket disconnected")
}

// Push sends an event to every connection the user has open. Writes stay
// under the hub lock because a websocket connection only tolerates one
// writer at a time. Write errors are logged and the connection is left for
// its read loop to reap.
func (h *Hub) Push(userID, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns[userID] {
		if err := c.WriteJSON(Event{Event: event, Payload: payload}); err != nil {
			h.log.WithError(err).WithField("user_id", userID).Debug("Websocket push failed")
		}
	}
}

// Online reports whether the user has at least one open connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}
