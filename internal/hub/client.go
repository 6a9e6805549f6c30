package hub

import (
	"encoding/json"
	"net/http"
	"time"

	"ghostmedia/backend/pkg/logger"
	"ghostmedia/backend/pkg/monitoring"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SendMessageInput is the payload of the inbound sendMessage event.
type SendMessageInput struct {
	Sender         string     `json:"sender"`
	Receiver       string     `json:"receiver"`
	Content        string     `json:"content"`
	IsGhost        bool       `json:"isGhost"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

type markReadInput struct {
	MessageIDs []string `json:"messageIds"`
	Username   string   `json:"username"`
}

type typingInput struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// Client is a single websocket connection. A connection starts anonymous and
// gains a username (and room membership) once the client sends userConnected.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	limiter  *rate.Limiter
}

// deliver sends an event to this connection only.
func (c *Client) deliver(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// deliverError reports a failed inbound event back to the originating
// connection. A bad payload never takes down the shared process.
func (c *Client) deliverError(message string) {
	c.deliver(Event{Name: "error", Payload: map[string]string{"message": message}})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("websocket unexpected close", zap.Error(err), zap.String("username", c.username))
			}
			break
		}

		if !c.limiter.Allow() {
			continue
		}

		var ev inboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.deliverError("malformed event")
			continue
		}

		monitoring.EventCounter.WithLabelValues(ev.Name, "in").Inc()
		c.dispatch(ev)
	}
}

func (c *Client) dispatch(ev inboundEvent) {
	switch ev.Name {
	case "userConnected":
		var username string
		if err := json.Unmarshal(ev.Payload, &username); err != nil || username == "" {
			c.deliverError("userConnected requires a username")
			return
		}
		c.hub.Register(username, c)

	case "sendMessage":
		if c.hub.inbound == nil {
			c.deliverError("messaging unavailable")
			return
		}
		var in SendMessageInput
		if err := json.Unmarshal(ev.Payload, &in); err != nil {
			c.deliverError("malformed sendMessage payload")
			return
		}
		if err := c.hub.inbound.HandleSendMessage(in); err != nil {
			c.deliverError(err.Error())
		}

	case "markMessagesRead":
		if c.hub.inbound == nil {
			c.deliverError("messaging unavailable")
			return
		}
		var in markReadInput
		if err := json.Unmarshal(ev.Payload, &in); err != nil {
			c.deliverError("malformed markMessagesRead payload")
			return
		}
		if err := c.hub.inbound.HandleMarkRead(in.MessageIDs, in.Username); err != nil {
			c.deliverError(err.Error())
		}

	case "typing", "stopTyping":
		var in typingInput
		if err := json.Unmarshal(ev.Payload, &in); err != nil || in.Receiver == "" {
			c.deliverError("malformed typing payload")
			return
		}
		out := "userTyping"
		if ev.Name == "stopTyping" {
			out = "userStoppedTyping"
		}
		c.hub.EmitToUser(in.Receiver, out, map[string]string{"sender": in.Sender})

	default:
		c.deliverError("unknown event: " + ev.Name)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame; ordering within a connection follows emit
			// order because this is the only writer.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and starts the
// read/write pumps.
func ServeWS(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		limiter: rate.NewLimiter(rate.Limit(30), 50),
	}
	h.add(client)

	go client.writePump()
	go client.readPump()
}
