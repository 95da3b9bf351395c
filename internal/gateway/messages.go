package gateway

import (
	"encoding/json"

	"github.com/bluedynamics/bdapoker/internal/deck"
	"github.com/bluedynamics/bdapoker/internal/room"
)

// Envelope wraps every message on the session transport, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound message types (client to server).
const (
	MsgJoin       = "join"
	MsgVote       = "vote"
	MsgReveal     = "reveal"
	MsgStartRound = "start_round"
	MsgResetRound = "reset_round"
	MsgKick       = "kick"
	MsgChangeDeck = "change_deck"
	MsgStartTimer = "start_timer"
	MsgStopTimer  = "stop_timer"
)

// Outbound message types (server to client).
const (
	MsgWelcome   = "welcome"
	MsgState     = "state"
	MsgError     = "error"
	MsgTimerTick = "timer_tick"
)

type JoinPayload struct {
	Name string    `json:"name"`
	Role room.Role `json:"role"`
}

type VotePayload struct {
	Value string `json:"value"`
}

type StartRoundPayload struct {
	Story     string `json:"story"`
	StoryLink string `json:"story_link,omitempty"`
}

type KickPayload struct {
	TargetID string `json:"target_id"`
}

type ChangeDeckPayload struct {
	DeckType          deck.Type   `json:"deck_type"`
	DescriptionFlavor deck.Flavor `json:"description_flavor,omitempty"`
}

type StartTimerPayload struct {
	Seconds int `json:"seconds"`
}

// WelcomePayload is sent once per connection bind or reconnect. The
// reconnect token is present once the participant has an identity in
// the room (immediately on reconnect, after the join message otherwise).
type WelcomePayload struct {
	ParticipantID  string         `json:"participant_id"`
	IsModerator    bool           `json:"is_moderator"`
	Reconnected    bool           `json:"reconnected"`
	ReconnectToken string         `json:"reconnect_token,omitempty"`
	Room           *room.Snapshot `json:"room,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type TimerTickPayload struct {
	SecondsRemaining int `json:"seconds_remaining"`
}

// encode marshals a typed payload into a wire envelope.
func encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Payload: raw})
}
