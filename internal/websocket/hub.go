package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans roster events out to every connected dashboard. It satisfies
// service.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Notify broadcasts ev. Clients whose buffer is full are dropped.
func (h *Hub) Notify(ev model.RosterEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event", ev.Type).Msg("Marshal error")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.log.Warn().Msg("Dropping slow client")
			delete(h.clients, c)
			c.close()
		}
	}
}

// Clients returns the number of connected dashboards.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve registers conn, sends initial if non-nil, and blocks until the
// connection goes away.
func (h *Hub) Serve(conn *websocket.Conn, initial *model.RosterEvent) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	if initial != nil {
		if payload, err := json.Marshal(initial); err == nil {
			c.send <- payload
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Int("clients", h.Clients()).Msg("Client connected")

	done := make(chan struct{})
	go func() {
		h.writePump(c)
		close(done)
	}()
	h.readPump(c)

	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
	<-done
	h.log.Debug().Int("clients", h.Clients()).Msg("Client disconnected")
}

func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("Read error")
			}
			return
		}

		var env RequestEnvelope
		var reply interface{}
		if err := json.Unmarshal(msg, &env); err != nil {
			reply = ErrorResponse{Event: EventError, Error: "invalid JSON"}
		} else if env.Action == ActionPing {
			reply = PongResponse{Event: EventPong}
		} else {
			reply = ErrorResponse{Event: EventError, Error: "unknown action"}
		}

		payload, _ := json.Marshal(reply)
		h.mu.RLock()
		_, live := h.clients[c]
		if live {
			select {
			case c.send <- payload:
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
