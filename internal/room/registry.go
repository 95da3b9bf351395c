package room

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/deck"
	"github.com/bluedynamics/bdapoker/internal/token"
)

// DefaultRoomGrace is how long a room with zero connected participants
// survives before the sweep disposes of it. Long enough to ride out a
// mass reconnect during a redeploy.
const DefaultRoomGrace = 5 * time.Minute

const sweepInterval = time.Minute

// Registry owns the process-wide room table. It is safe for concurrent
// use by any number of connections; its lock is independent of every
// room's internal serialization.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	sink            Sink
	tokens          *token.Store
	clock           clockwork.Clock
	roomGrace       time.Duration
	disconnectGrace time.Duration
}

// RegistryOptions configures room construction and garbage collection.
type RegistryOptions struct {
	Sink            Sink
	Tokens          *token.Store
	Clock           clockwork.Clock
	RoomGrace       time.Duration
	DisconnectGrace time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.RoomGrace <= 0 {
		opts.RoomGrace = DefaultRoomGrace
	}
	return &Registry{
		rooms:           make(map[string]*Room),
		sink:            opts.Sink,
		tokens:          opts.Tokens,
		clock:           opts.Clock,
		roomGrace:       opts.RoomGrace,
		disconnectGrace: opts.DisconnectGrace,
	}
}

// Create makes a room under a fresh identifier.
func (g *Registry) Create(deckType deck.Type, flavor deck.Flavor) (*Room, error) {
	return g.GetOrCreate(NewID(8), deckType, flavor)
}

// GetOrCreate returns the room with the given id, creating it with the
// supplied deck and flavor if absent.
func (g *Registry) GetOrCreate(roomID string, deckType deck.Type, flavor deck.Flavor) (*Room, error) {
	if _, err := deck.Cards(deckType, flavor); err != nil {
		return nil, opErr(KindValidation, err.Error())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.rooms[roomID]; ok {
		return r, nil
	}
	r := New(roomID, deckType, flavor, Options{
		Sink:            g.sink,
		Tokens:          g.tokens,
		Clock:           g.clock,
		DisconnectGrace: g.disconnectGrace,
	})
	g.rooms[roomID] = r

	log.Info().
		Str("room_id", roomID).
		Str("deck_type", string(deckType)).
		Str("flavor", string(flavor)).
		Msg("room created")
	return r, nil
}

// Get looks up an existing room.
func (g *Registry) Get(roomID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[roomID]
	return r, ok
}

// Remove disposes of a room and revokes every credential issued for it.
func (g *Registry) Remove(roomID string) {
	g.mu.Lock()
	r, ok := g.rooms[roomID]
	delete(g.rooms, roomID)
	g.mu.Unlock()

	if !ok {
		return
	}
	r.Close()
	g.tokens.RevokeRoom(roomID)
	log.Info().Str("room_id", roomID).Msg("room removed")
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Run sweeps for expired rooms until the context is cancelled.
func (g *Registry) Run(ctx context.Context) {
	ticker := g.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := g.Sweep(); n > 0 {
				log.Info().Int("removed", n).Msg("swept expired rooms")
			}
		}
	}
}

// Sweep removes rooms that have had zero connected participants for
// longer than the room grace period. Returns the number removed.
func (g *Registry) Sweep() int {
	now := g.clock.Now()

	g.mu.RLock()
	var expired []string
	for id, r := range g.rooms {
		if since, ok := r.EmptySince(); ok && now.Sub(since) > g.roomGrace {
			expired = append(expired, id)
		}
	}
	g.mu.RUnlock()

	for _, id := range expired {
		g.Remove(id)
	}
	return len(expired)
}
