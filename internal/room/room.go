// Package room implements the per-room session engine: the roster and
// round state machine, its serialization discipline, the advisory timer,
// and the registry that owns room lifecycles.
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/deck"
	"github.com/bluedynamics/bdapoker/internal/token"
)

// Sink receives room events for delivery to connected clients.
// Implementations must not block and must not call back into the room
// synchronously; the room invokes the sink while holding its lock.
type Sink interface {
	RoomState(roomID string, snap *Snapshot)
	TimerTick(roomID string, secondsRemaining int)
	ClosePeer(roomID, participantID, reason string)
}

// Options configures a room's collaborators.
type Options struct {
	Sink            Sink
	Tokens          *token.Store
	Clock           clockwork.Clock
	DisconnectGrace time.Duration
}

// DefaultDisconnectGrace is how long a disconnected participant keeps
// their identity and votes before being removed from the roster.
const DefaultDisconnectGrace = 2 * time.Minute

// Room is one isolated estimation session. Every mutation is serialized
// under a single mutex, and the broadcast snapshot is taken inside the
// same critical section, so no observer ever sees a half-applied change.
type Room struct {
	id              string
	sink            Sink
	tokens          *token.Store
	clock           clockwork.Clock
	disconnectGrace time.Duration

	mu               sync.Mutex
	deckType         deck.Type
	flavor           deck.Flavor
	participants     map[string]*Participant
	current          *Round
	history          []*Round
	roundSeq         int
	moderatorClaimed bool

	timerStop     chan struct{}
	timerDeadline time.Time

	removalTimers map[string]*removalTimer

	createdAt    time.Time
	emptySince   time.Time
	lastActivity time.Time
}

// New creates an idle room. The deck and flavor must already be
// validated by the caller.
func New(id string, deckType deck.Type, flavor deck.Flavor, opts Options) *Room {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.DisconnectGrace <= 0 {
		opts.DisconnectGrace = DefaultDisconnectGrace
	}
	now := opts.Clock.Now()
	return &Room{
		id:              id,
		sink:            opts.Sink,
		tokens:          opts.Tokens,
		clock:           opts.Clock,
		disconnectGrace: opts.DisconnectGrace,
		deckType:        deckType,
		flavor:          flavor,
		participants:    make(map[string]*Participant),
		removalTimers:   make(map[string]*removalTimer),
		createdAt:       now,
		emptySince:      now,
		lastActivity:    now,
	}
}

// NewID returns a short opaque identifier derived from a UUID.
func NewID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Join adds a participant under a connection-assigned id and issues a
// reconnect credential. The first successful joiner always becomes the
// moderator; later joiners get their requested role, with moderator
// requests demoted to voter. Rejoining an existing id updates the name
// and keeps the established role.
func (r *Room) Join(participantID, name string, role Role) (*Participant, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", opErr(KindValidation, "Name is required")
	}

	if p, ok := r.participants[participantID]; ok {
		p.Name = name
		p.Connected = true
		r.touch()
		r.broadcastLocked()
		tok, live := r.tokens.Get(r.id, participantID)
		if !live {
			tok = r.tokens.Issue(r.id, participantID)
		}
		return p, tok, nil
	}

	switch {
	case !r.moderatorClaimed:
		role = RoleModerator
		r.moderatorClaimed = true
	case !ValidRole(role):
		return nil, "", opErr(KindValidation, "Invalid role: "+string(role))
	case role == RoleModerator:
		role = RoleVoter
	}

	p := &Participant{
		ID:        participantID,
		Name:      name,
		Role:      role,
		Connected: true,
		JoinedAt:  r.clock.Now(),
	}
	r.participants[participantID] = p
	r.updateEmptyLocked()
	r.touch()

	tok := r.tokens.Issue(r.id, participantID)

	log.Info().
		Str("room_id", r.id).
		Str("participant_id", participantID).
		Str("role", string(p.Role)).
		Msg("participant joined")

	r.broadcastLocked()
	return p, tok, nil
}

// Reconnect rebinds an existing participant after validating their
// credential. Round state, including any cast vote, is untouched.
func (r *Room) Reconnect(participantID, tok string) (*Participant, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.tokens.Validate(r.id, participantID, tok) {
		return nil, "", opErr(KindToken, "Invalid or expired reconnect token")
	}
	p, ok := r.participants[participantID]
	if !ok {
		return nil, "", opErr(KindToken, "Invalid or expired reconnect token")
	}

	p.Connected = true
	r.cancelRemovalLocked(participantID)
	r.updateEmptyLocked()
	r.touch()

	log.Info().
		Str("room_id", r.id).
		Str("participant_id", participantID).
		Msg("participant reconnected")

	r.broadcastLocked()
	existing, _ := r.tokens.Get(r.id, participantID)
	return p, existing, nil
}

// Leave marks the participant disconnected. Their identity and votes
// survive until the disconnect grace period elapses without a reconnect.
func (r *Room) Leave(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[participantID]
	if !ok {
		return
	}
	p.Connected = false
	r.scheduleRemovalLocked(participantID)
	r.updateEmptyLocked()
	r.touch()
	r.broadcastLocked()
}

// SubmitVote upserts the actor's vote for the open round.
func (r *Room) SubmitVote(participantID, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[participantID]
	if !ok {
		return opErr(KindNotFound, "Not in room")
	}
	if p.Role == RoleSpectator {
		return opErr(KindRole, "Spectators cannot vote")
	}
	if r.current == nil {
		return opErr(KindState, "No active round")
	}
	if r.current.Revealed {
		return opErr(KindState, "Round already revealed")
	}

	r.current.Votes[participantID] = Vote{
		ParticipantID: participantID,
		Value:         value,
		CastAt:        r.clock.Now(),
	}
	r.touch()
	r.broadcastLocked()
	return nil
}

// Reveal exposes all cast vote values. Moderator only; rejected when no
// round is open or the round is already revealed.
func (r *Room) Reveal(participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(participantID, "Only moderator can reveal"); err != nil {
		return err
	}
	if r.current == nil {
		return opErr(KindState, "No active round")
	}
	if r.current.Revealed {
		return opErr(KindState, "Round already revealed")
	}

	r.current.Revealed = true
	r.touch()

	log.Info().
		Str("room_id", r.id).
		Int("round", r.current.Number).
		Int("votes", len(r.current.Votes)).
		Msg("round revealed")

	r.broadcastLocked()
	return nil
}

// StartRound opens a new round on a fresh story, archiving the previous
// round. Allowed from any state; cancels a running timer.
func (r *Room) StartRound(participantID, story, storyLink string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(participantID, "Only moderator can start new round"); err != nil {
		return err
	}

	if r.current != nil {
		r.history = append(r.history, r.current)
	}
	r.roundSeq++
	r.current = newRound(r.roundSeq, story, storyLink)
	r.cancelTimerLocked()
	r.touch()
	r.broadcastLocked()
	return nil
}

// ResetRound clears votes for a re-vote on the same story. The round
// counter does not advance; a running timer is cancelled.
func (r *Room) ResetRound(participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(participantID, "Only moderator can reset round"); err != nil {
		return err
	}
	if r.current == nil {
		return opErr(KindState, "No active round")
	}

	r.current.Votes = make(map[string]Vote)
	r.current.Revealed = false
	r.cancelTimerLocked()
	r.touch()
	r.broadcastLocked()
	return nil
}

// Kick permanently removes a participant, revokes their credential, and
// forces their connection closed.
func (r *Room) Kick(actorID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(actorID, "Only moderator can kick"); err != nil {
		return err
	}
	if targetID == actorID {
		return opErr(KindSelfTarget, "Cannot kick yourself")
	}
	if _, ok := r.participants[targetID]; !ok {
		return opErr(KindNotFound, "Participant not found")
	}

	delete(r.participants, targetID)
	if r.current != nil {
		delete(r.current.Votes, targetID)
	}
	r.cancelRemovalLocked(targetID)
	r.tokens.Revoke(r.id, targetID)
	r.updateEmptyLocked()
	r.touch()

	log.Info().
		Str("room_id", r.id).
		Str("participant_id", targetID).
		Msg("participant kicked")

	r.broadcastLocked()
	r.sink.ClosePeer(r.id, targetID, "Kicked from room")
	return nil
}

// ChangeDeck switches the room's deck and optionally its description
// flavor. Votes already cast stay as submitted even if no longer valid
// under the new deck.
func (r *Room) ChangeDeck(actorID string, deckType deck.Type, flavor deck.Flavor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(actorID, "Only moderator can change deck"); err != nil {
		return err
	}
	if flavor == "" {
		flavor = r.flavor
	}
	if _, err := deck.Cards(deckType, flavor); err != nil {
		return opErr(KindValidation, err.Error())
	}

	r.deckType = deckType
	r.flavor = flavor
	r.touch()
	r.broadcastLocked()
	return nil
}

func (r *Room) requireModeratorLocked(participantID, denied string) error {
	p, ok := r.participants[participantID]
	if !ok {
		return opErr(KindNotFound, "Not in room")
	}
	if p.Role != RoleModerator {
		return opErr(KindAuthorization, denied)
	}
	return nil
}

// Snapshot returns the current redacted public state.
func (r *Room) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// ParticipantCount returns the roster size, connected or not.
func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// EmptySince reports when the room last dropped to zero connected
// participants. ok is false while anyone is connected.
func (r *Room) EmptySince() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emptySince.IsZero() {
		return time.Time{}, false
	}
	return r.emptySince, true
}

// Close cancels the room's timers. Called by the registry on disposal.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimerLocked()
	for id, rt := range r.removalTimers {
		rt.timer.Stop()
		close(rt.stop)
		delete(r.removalTimers, id)
	}
}

func (r *Room) broadcastLocked() {
	r.sink.RoomState(r.id, r.snapshot())
}

func (r *Room) touch() {
	r.lastActivity = r.clock.Now()
}

// updateEmptyLocked tracks the instant the room lost its last connected
// participant, which drives registry garbage collection.
func (r *Room) updateEmptyLocked() {
	for _, p := range r.participants {
		if p.Connected {
			r.emptySince = time.Time{}
			return
		}
	}
	if r.emptySince.IsZero() {
		r.emptySince = r.clock.Now()
	}
}

type removalTimer struct {
	timer clockwork.Timer
	stop  chan struct{}
}

// scheduleRemovalLocked arms the disconnect grace timer for a
// participant. If it fires while they are still disconnected, they are
// removed from the roster for good.
func (r *Room) scheduleRemovalLocked(participantID string) {
	r.cancelRemovalLocked(participantID)

	rt := &removalTimer{
		timer: r.clock.NewTimer(r.disconnectGrace),
		stop:  make(chan struct{}),
	}
	r.removalTimers[participantID] = rt

	go func() {
		select {
		case <-rt.stop:
			return
		case <-rt.timer.Chan():
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.removalTimers[participantID] != rt {
			return
		}
		delete(r.removalTimers, participantID)

		p, ok := r.participants[participantID]
		if !ok || p.Connected {
			return
		}
		delete(r.participants, participantID)
		if r.current != nil {
			delete(r.current.Votes, participantID)
		}
		r.tokens.Revoke(r.id, participantID)
		r.updateEmptyLocked()

		log.Info().
			Str("room_id", r.id).
			Str("participant_id", participantID).
			Msg("disconnected participant removed after grace period")

		r.broadcastLocked()
	}()
}

func (r *Room) cancelRemovalLocked(participantID string) {
	if rt, ok := r.removalTimers[participantID]; ok {
		rt.timer.Stop()
		close(rt.stop)
		delete(r.removalTimers, participantID)
	}
}
