// Package websocket provides the WebSocket session transport. Every
// connection is one conversation: the peer streams snapshots and
// interactions, and each is answered with a rendered tree.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/spec"
)

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeInteract = "interact"
	TypeTree     = "tree"
	TypeError    = "error"
	TypeShutdown = "shutdown"
)

// Hub maintains active sessions.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop until ctx is done. Should be called in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			// deliver what was broadcast before shutdown
			for pending := true; pending; {
				select {
				case message := <-h.broadcast:
					h.deliver(message)
				default:
					pending = false
				}
			}
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().
				Str("session", client.id).
				Int("total_sessions", total).
				Msg("WebSocket session opened")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().
				Str("session", client.id).
				Int("total_sessions", total).
				Msg("WebSocket session closed")

		case message := <-h.broadcast:
			h.mu.Lock()
			h.deliver(message)
			h.mu.Unlock()
		}
	}
}

// deliver queues message for every client. Callers hold mu.
func (h *Hub) deliver(message Message) {
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer full, disconnect
			client.close()
			delete(h.clients, client)
		}
	}
}

// Register adds a client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Msg("Broadcast channel full, message dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message is a server to client message.
type Message struct {
	Type      string    `json:"type"`
	Session   string    `json:"session,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Inbound is a client to server message.
type Inbound struct {
	Type string `json:"type"`

	// snapshot
	Tree  spec.Raw `json:"tree,omitempty"`
	Final bool     `json:"final,omitempty"`

	// interact
	Path  string `json:"path,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Handler answers one inbound message. Calls for one client never overlap.
type Handler func(ctx context.Context, in Inbound) Message

// ErrorMessage builds an error reply.
func ErrorMessage(message string) Message {
	return Message{
		Type:      TypeError,
		Timestamp: time.Now(),
		Data:      map[string]any{"message": message},
	}
}

// Client represents a WebSocket client connection.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	handle Handler

	// mu guards closing send against replies from ReadPump
	mu     sync.Mutex
	closed bool
}

// NewClient creates a new WebSocket client.
func NewClient(id string, hub *Hub, conn *websocket.Conn, handle Handler) *Client {
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, 256),
		handle: handle,
	}
}

// close closes the send channel once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// enqueue queues a reply unless the client is closed or its buffer is full.
func (c *Client) enqueue(m Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

// ID returns the session id.
func (c *Client) ID() string {
	return c.id
}

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// ReadPump reads messages from the connection and answers each through the
// handler, in arrival order.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-ctx.Done():
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(constants.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Error().Err(err).Str("session", c.id).Msg("WebSocket read error")
			}
			return
		}

		var in Inbound
		reply := ErrorMessage("message is not valid JSON")
		if err := json.Unmarshal(data, &in); err == nil {
			reply = c.handle(ctx, in)
		}
		reply.Session = c.id

		if !c.enqueue(reply) {
			c.hub.logger.Warn().Str("session", c.id).Str("type", reply.Type).Msg("Reply dropped")
		}
	}
}

// WritePump pumps replies to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WriteWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				c.hub.logger.Error().Err(err).Msg("Failed to marshal WebSocket message")
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
