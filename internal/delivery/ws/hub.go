package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what subscribers receive.
type Message struct {
	Type    string              `json:"type"`
	Payment domain.StatusUpdate `json:"payment"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan Message
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub fans payment status updates out to every connection of a user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]struct{})}
}

// BroadcastStatus never blocks: a subscriber with a full buffer misses the update.
func (h *Hub) BroadcastStatus(update domain.StatusUpdate) {
	msg := Message{Type: "payment_status", Payment: update}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[update.UserID] {
		select {
		case c.send <- msg:
		default:
			slog.Warn("websocket send buffer full, dropping update", "user_id", update.UserID, "payment_id", update.PaymentID)
		}
	}
}

func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve upgrades the request and blocks until the connection goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		done:   make(chan struct{}),
	}
	h.register(c)
	defer h.unregister(c)

	go c.writePump()
	c.readPump()
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	count := len(h.clients[c.userID])
	h.mu.Unlock()

	slog.Info("websocket client registered", "user_id", c.userID, "connection_count", count)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if clients, ok := h.clients[c.userID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.close()

	slog.Info("websocket client unregistered", "user_id", c.userID)
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for c := range clients {
			c.close()
		}
	}
}

// readPump only watches for close and pong frames.
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "user_id", c.userID, "error", err.Error())
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				slog.Warn("failed to send websocket message", "user_id", c.userID, "error", err.Error())
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
