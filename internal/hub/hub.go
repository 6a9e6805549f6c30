package hub

import (
	"encoding/json"
	"sync"

	"ghostmedia/backend/pkg/logger"
	"ghostmedia/backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Event represents a real-time event sent to or received from clients.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// inboundEvent is the wire form of a client-sent event before dispatch.
type inboundEvent struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// InboundHandler receives client events that touch the record store. The hub
// handles presence and transient events (typing) itself and forwards the rest.
type InboundHandler interface {
	HandleSendMessage(in SendMessageInput) error
	HandleMarkRead(messageIDs []string, username string) error
}

// Hub tracks every live connection, the per-user rooms used for targeted
// delivery, and the presence table. It is process-local: presence does not
// survive a restart and is not shared across instances.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	rooms    map[string]map[*Client]bool
	presence map[string]*Client
	inbound  InboundHandler
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = New()

// New creates a new Hub.
func New() *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		rooms:    make(map[string]map[*Client]bool),
		presence: make(map[string]*Client),
	}
}

// SetInbound wires the handler for store-touching client events. Called once
// at startup, before any connection is accepted.
func (h *Hub) SetInbound(handler InboundHandler) {
	h.inbound = handler
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

// Register associates a user with a live connection and joins the per-user
// room. The presence table is last-write-wins, but room membership
// accumulates so a second device does not evict the first connection.
func (h *Hub) Register(username string, c *Client) {
	if username == "" {
		return
	}

	h.mu.Lock()
	c.username = username
	if _, ok := h.rooms[username]; !ok {
		h.rooms[username] = make(map[*Client]bool)
	}
	h.rooms[username][c] = true
	h.presence[username] = c
	online := len(h.presence)
	h.mu.Unlock()

	monitoring.OnlineUsers.Set(float64(online))
	logger.Log.Info("user connected", zap.String("username", username))

	// Freshly connected clients re-pull their pending requests.
	c.deliver(Event{Name: "refreshFriendRequests"})
}

// remove drops a connection entirely: room membership, presence, client set.
// The last connection for a user going away takes the user offline.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	if c.username != "" {
		if room, ok := h.rooms[c.username]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, c.username)
				delete(h.presence, c.username)
			} else if h.presence[c.username] == c {
				for other := range room {
					h.presence[c.username] = other
					break
				}
			}
		}
	}
	online := len(h.presence)
	h.mu.Unlock()

	close(c.send)
	monitoring.OnlineUsers.Set(float64(online))
	if c.username != "" {
		logger.Log.Info("user disconnected", zap.String("username", c.username))
		h.Broadcast("onlineUsers", h.OnlineUsers())
	}
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.presence[username]
	return ok
}

// OnlineUsers returns a snapshot of currently connected usernames.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make([]string, 0, len(h.presence))
	for username := range h.presence {
		users = append(users, username)
	}
	return users
}

// EmitToUser delivers an event to every connection joined to the user's room.
// An offline user is a no-op, not an error: events are not queued.
func (h *Hub) EmitToUser(username, event string, payload interface{}) {
	data, err := json.Marshal(Event{Name: event, Payload: payload})
	if err != nil {
		logger.Log.Error("event marshal failed", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	monitoring.EventCounter.WithLabelValues(event, "out").Inc()
	for c := range h.rooms[username] {
		// Non-blocking send so a slow client cannot stall the hub. A full
		// buffer just drops the event: delivery is fire-and-forget.
		select {
		case c.send <- data:
		default:
		}
	}
}

// Broadcast delivers an event to every connected client regardless of room.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Event{Name: event, Payload: payload})
	if err != nil {
		logger.Log.Error("event marshal failed", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	monitoring.EventCounter.WithLabelValues(event, "out").Inc()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}
