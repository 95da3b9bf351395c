// Package gateway binds websocket connections to room participants and
// fans room state out to every connection of a room. It also carries the
// small HTTP surface for room creation and deck lookup.
package gateway

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/room"
)

// Hub is the connection registry and broadcaster. It implements
// room.Sink: delivery is per-connection and non-blocking, so a slow or
// broken connection never stalls a room mutation or other recipients.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[string]*Conn // roomID -> participantID -> conn
	config ConnConfig
}

// NewHub creates an empty hub.
func NewHub(config ConnConfig) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]*Conn),
		config: config,
	}
}

// bind registers a connection as the live transport for its participant,
// displacing and closing any stale connection for the same identity.
func (h *Hub) bind(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.rooms[c.roomID]
	if conns == nil {
		conns = make(map[string]*Conn)
		h.rooms[c.roomID] = conns
	}
	if stale, ok := conns[c.participantID]; ok && stale != c {
		close(stale.send)
		log.Debug().
			Str("conn_id", stale.id).
			Str("participant_id", c.participantID).
			Msg("displaced stale connection")
	}
	conns[c.participantID] = c

	log.Debug().
		Str("conn_id", c.id).
		Str("room_id", c.roomID).
		Str("participant_id", c.participantID).
		Int("room_connections", len(conns)).
		Msg("connection bound")
}

// unbind removes a connection and reports whether the participant is now
// without a transport, so the caller knows to mark them disconnected.
// A displaced connection reports false because a newer one owns the
// identity; an already-evicted connection reports true because nothing
// else will deliver the disconnect.
func (h *Hub) unbind(c *Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[c.roomID]
	if ok {
		if cur, exists := conns[c.participantID]; exists {
			if cur != c {
				return false
			}
			delete(conns, c.participantID)
			close(c.send)
			if len(conns) == 0 {
				delete(h.rooms, c.roomID)
			}

			log.Debug().
				Str("conn_id", c.id).
				Str("room_id", c.roomID).
				Str("participant_id", c.participantID).
				Msg("connection unbound")
			return true
		}
	}
	return true
}

// deliver enqueues a frame for one connection. A full send buffer means
// the peer is too slow to keep up; the connection is evicted.
func (h *Hub) deliver(c *Conn, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliverLocked(c, data)
}

func (h *Hub) deliverLocked(c *Conn, data []byte) {
	conns, ok := h.rooms[c.roomID]
	if !ok || conns[c.participantID] != c {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().
			Str("conn_id", c.id).
			Str("participant_id", c.participantID).
			Msg("send buffer full, evicting connection")
		delete(conns, c.participantID)
		close(c.send)
		if len(conns) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
}

// broadcast marshals once and enqueues the frame for every connection
// bound to the room.
func (h *Hub) broadcast(roomID, typ string, payload any) {
	data, err := encode(typ, payload)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to marshal broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.rooms[roomID] {
		h.deliverLocked(c, data)
	}
}

// RoomState implements room.Sink.
func (h *Hub) RoomState(roomID string, snap *room.Snapshot) {
	h.broadcast(roomID, MsgState, snap)
}

// TimerTick implements room.Sink.
func (h *Hub) TimerTick(roomID string, secondsRemaining int) {
	h.broadcast(roomID, MsgTimerTick, TimerTickPayload{SecondsRemaining: secondsRemaining})
}

// ClosePeer implements room.Sink. Tears down the participant's
// connection, if any; used when a participant is kicked.
func (h *Hub) ClosePeer(roomID, participantID, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}
	c, ok := conns[participantID]
	if !ok {
		return
	}
	if data, err := encode(MsgError, ErrorPayload{Message: reason}); err == nil {
		select {
		case c.send <- data:
		default:
		}
	}
	delete(conns, participantID)
	close(c.send)
	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}
}
