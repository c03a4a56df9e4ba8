// Package ws is the live delivery layer: a room-based hub over gorilla
// websockets. The hub implements domain.Broadcaster, so services publish
// through it without knowing about connections.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// envelope is the wire frame for every server-to-client event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks which connections are subscribed to which rooms. Rooms are
// plain strings derived by the domain layer; the hub never interprets them.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[*Client]struct{})
		h.rooms[room] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[room]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
}

// remove drops the client from every room it joined. Called once when the
// connection closes.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, subs := range h.rooms {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Publish fans an event out to every subscriber of the room. Marshaling
// happens once per publish, not per subscriber.
func (h *Hub) Publish(room, event string, payload any) {
	h.publish(room, event, payload, "")
}

// PublishExcept fans out like Publish but skips connections owned by
// exceptUserID; a user typing should not see their own typing indicator.
func (h *Hub) PublishExcept(room, event string, payload any, exceptUserID string) {
	h.publish(room, event, payload, exceptUserID)
}

func (h *Hub) publish(room, event string, payload any, exceptUserID string) {
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("marshal ws event", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if exceptUserID != "" && c.userID == exceptUserID {
			continue
		}
		select {
		case c.send <- frame:
		default:
			// The client's buffer is full; it is too far behind to be
			// worth keeping.
			go c.close()
		}
	}
}
