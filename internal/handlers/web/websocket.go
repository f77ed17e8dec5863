package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"badgehub/internal/events"
	"badgehub/internal/middleware"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
	hubHandlerID   = "notification-hub"
)

// Message is the envelope pushed to websocket clients.
type Message struct {
	Type      string      `json:"type"`
	ID        string      `json:"id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NotificationHub relays every event published on the bus to connected
// websocket clients. Clients that fall behind are disconnected.
type NotificationHub struct {
	bus      events.EventBus
	upgrader websocket.Upgrader
	logger   *zap.Logger
	snapshot func() Message

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// HubConfig configures a NotificationHub.
type HubConfig struct {
	// AllowedOrigins limits browser origins; empty allows same-origin only.
	AllowedOrigins []string
	// Snapshot, when set, produces the first message each client receives.
	Snapshot func() Message
}

// NewNotificationHub subscribes a hub to every event on bus.
func NewNotificationHub(bus events.EventBus, config HubConfig, logger *zap.Logger) (*NotificationHub, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &NotificationHub{
		bus:      bus,
		logger:   logger,
		snapshot: config.Snapshot,
		clients:  make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(config.AllowedOrigins),
	}

	if err := bus.SubscribePattern("*", h.handler()); err != nil {
		return nil, err
	}
	return h, nil
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			return origin == "http://"+r.Host || origin == "https://"+r.Host
		}
		return middleware.OriginAllowed(origin, allowed)
	}
}

func (h *NotificationHub) handler() events.EventHandlerFunc {
	return events.EventHandlerFunc{
		ID: hubHandlerID,
		Func: func(ctx context.Context, event events.Event) error {
			h.Broadcast(Message{
				Type:      event.GetEventType(),
				ID:        event.GetEventID(),
				Timestamp: event.GetTimestamp(),
				Payload:   event,
			})
			return nil
		},
	}
}

// ServeHTTP handles GET /ws
func (h *NotificationHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan Message, sendBufferSize)}
	if h.snapshot != nil {
		c.send <- h.snapshot()
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.wg.Add(2)
	h.mu.Unlock()

	h.logger.Debug("WebSocket client connected", zap.String("remote_addr", r.RemoteAddr))

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues msg for every client.
func (h *NotificationHub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping slow WebSocket client")
			h.removeLocked(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *NotificationHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close unsubscribes from the bus, disconnects every client and waits for
// their goroutines to exit.
func (h *NotificationHub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	err := h.bus.Unsubscribe("*", h.handler())
	h.wg.Wait()
	return err
}

// removeLocked closes c's queue; the write pump then closes the connection.
// Caller holds h.mu.
func (h *NotificationHub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *NotificationHub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *NotificationHub) readPump(c *client) {
	defer h.wg.Done()
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read failed", zap.Error(err))
			}
			return
		}
	}
}

func (h *NotificationHub) writePump(c *client) {
	defer h.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
