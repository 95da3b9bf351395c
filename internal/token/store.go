// Package token implements the reconnect credential store. A credential
// lets a disconnected participant reclaim their identity within a room.
package token

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type key struct {
	roomID        string
	participantID string
}

type entry struct {
	token   string
	expires time.Time
}

// Store maps (room, participant) to an opaque reconnect token with a
// sliding expiry window. One live credential per participant: issuing a
// new one invalidates the previous token.
type Store struct {
	mu    sync.Mutex
	clock clockwork.Clock
	ttl   time.Duration
	creds map[key]entry
}

// NewStore creates a store whose credentials expire ttl after last use.
func NewStore(clock clockwork.Clock, ttl time.Duration) *Store {
	return &Store{
		clock: clock,
		ttl:   ttl,
		creds: make(map[key]entry),
	}
}

// Issue creates a fresh credential for the participant, replacing any
// existing one, and returns the opaque token.
func (s *Store) Issue(roomID, participantID string) string {
	tok := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[key{roomID, participantID}] = entry{
		token:   tok,
		expires: s.clock.Now().Add(s.ttl),
	}
	return tok
}

// Validate checks a presented token and, on success, slides the expiry
// window forward from now.
func (s *Store) Validate(roomID, participantID, tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{roomID, participantID}
	e, ok := s.creds[k]
	if !ok {
		return false
	}
	if s.clock.Now().After(e.expires) {
		delete(s.creds, k)
		log.Debug().
			Str("room_id", roomID).
			Str("participant_id", participantID).
			Msg("reconnect token expired")
		return false
	}
	if e.token != tok {
		return false
	}
	e.expires = s.clock.Now().Add(s.ttl)
	s.creds[k] = e
	return true
}

// Get returns the participant's current token without touching its expiry.
func (s *Store) Get(roomID, participantID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.creds[key{roomID, participantID}]
	if !ok || s.clock.Now().After(e.expires) {
		return "", false
	}
	return e.token, true
}

// Revoke invalidates the participant's credential, if any.
func (s *Store) Revoke(roomID, participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, key{roomID, participantID})
}

// RevokeRoom invalidates every credential issued for a room. Called when
// the registry disposes of the room.
func (s *Store) RevokeRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.creds {
		if k.roomID == roomID {
			delete(s.creds, k)
		}
	}
}
