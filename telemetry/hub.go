// Package telemetry streams interaction transition events to websocket
// subscribers as JSON, for debugging overlays and recorders.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tangible-xr/tangible/event"
	"github.com/tangible-xr/tangible/internal/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Telemetry is a local debug stream.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wireEvent is the JSON shape sent to subscribers.
type wireEvent struct {
	Type       string `json:"type"`
	Controller string `json:"controller"`
	Object     string `json:"object,omitempty"`
	Tick       uint64 `json:"tick"`
}

// Hub maintains the set of active clients and broadcasts events to them.
// It implements event.Handler so it can subscribe directly to the
// interaction manager.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu sync.RWMutex
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run is the hub's main loop. Call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("telemetry client connected", "total", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("telemetry client disconnected", "remaining", count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer, drop it.
					close(c.send)
					delete(h.clients, c)
					log.Warn("dropped slow telemetry client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleEvent implements event.Handler, broadcasting the event as JSON.
func (h *Hub) HandleEvent(ev event.Event) {
	msg := wireEvent{
		Type:       ev.Type.String(),
		Controller: ev.Controller.String(),
		Tick:       ev.Tick,
	}
	if ev.Object != uuid.Nil {
		msg.Object = ev.Object.String()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("telemetry encode failed", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// The simulation never blocks on telemetry.
	}
}

// EventTypes implements event.Handler; nil subscribes to every type.
func (h *Hub) EventTypes() []event.Type {
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket subscription.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("telemetry upgrade failed", "error", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	h.register <- c
	go c.writePump()
	go c.readPump()
}
