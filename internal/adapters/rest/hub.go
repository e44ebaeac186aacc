package rest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Dashboard clients never send application messages.
	maxMessageSize = 512
)

// Hub maintains the set of websocket dashboard clients and broadcasts
// each accepted reading to them. It implements ports.UpdateNotifier.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

// NewHub creates a hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client disconnected")
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Client can't keep up; drop it.
					close(c.send)
					delete(h.clients, c)
				}
			}

		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

// NotifyUpdate pushes one updated device record to every connected
// client. It never blocks the caller: if the hub is saturated the
// update is dropped, the next reading is two seconds away anyway.
func (h *Hub) NotifyUpdate(record domain.DeviceRecord) {
	message, err := json.Marshal(map[string]any{
		"type":    "reading",
		"payload": deviceToJSON(record),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal reading for broadcast")
		return
	}

	select {
	case h.broadcast <- message:
	default:
	}
}
