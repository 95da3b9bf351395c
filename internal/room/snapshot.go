package room

import (
	"github.com/bluedynamics/bdapoker/internal/deck"
	"github.com/bluedynamics/bdapoker/internal/stats"
)

// Snapshot is the serialized room state broadcast to every connection.
// Vote values are redacted while the round is unrevealed; redaction
// depends only on reveal state, never on the recipient's role.
type Snapshot struct {
	ID                string                     `json:"id"`
	DeckType          deck.Type                  `json:"deck_type"`
	DescriptionFlavor deck.Flavor                `json:"description_flavor"`
	Participants      map[string]ParticipantView `json:"participants"`
	CurrentRound      *RoundView                 `json:"current_round"`
	DeckCards         []deck.Card                `json:"deck_cards"`
	Stats             *stats.Stats               `json:"stats,omitempty"`
	Timer             *TimerView                 `json:"timer,omitempty"`
}

type ParticipantView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Connected bool   `json:"connected"`
}

type RoundView struct {
	Story       string              `json:"story"`
	StoryLink   string              `json:"story_link,omitempty"`
	Votes       map[string]VoteView `json:"votes"`
	Revealed    bool                `json:"revealed"`
	RoundNumber int                 `json:"round_number"`
}

// VoteView carries the vote value only once the round is revealed;
// before that only the fact of having voted is exposed.
type VoteView struct {
	ParticipantID string `json:"participant_id"`
	HasVoted      bool   `json:"has_voted"`
	Value         string `json:"value,omitempty"`
}

type TimerView struct {
	SecondsRemaining int `json:"seconds_remaining"`
}

// snapshot builds the redacted public state. Callers must hold r.mu.
func (r *Room) snapshot() *Snapshot {
	participants := make(map[string]ParticipantView, len(r.participants))
	for id, p := range r.participants {
		participants[id] = ParticipantView{
			ID:        p.ID,
			Name:      p.Name,
			Role:      p.Role,
			Connected: p.Connected,
		}
	}

	cards, err := deck.Cards(r.deckType, r.flavor)
	if err != nil {
		cards = nil
	}

	snap := &Snapshot{
		ID:                r.id,
		DeckType:          r.deckType,
		DescriptionFlavor: r.flavor,
		Participants:      participants,
		DeckCards:         cards,
	}

	if r.current != nil {
		votes := make(map[string]VoteView, len(r.current.Votes))
		for id, v := range r.current.Votes {
			view := VoteView{ParticipantID: id, HasVoted: true}
			if r.current.Revealed {
				view.Value = v.Value
			}
			votes[id] = view
		}
		snap.CurrentRound = &RoundView{
			Story:       r.current.Story,
			StoryLink:   r.current.StoryLink,
			Votes:       votes,
			Revealed:    r.current.Revealed,
			RoundNumber: r.current.Number,
		}
		if r.current.Revealed {
			values := make([]string, 0, len(r.current.Votes))
			for _, v := range r.current.Votes {
				values = append(values, v.Value)
			}
			s := stats.Compute(r.deckType, values)
			snap.Stats = &s
		}
	}

	if r.timerStop != nil {
		snap.Timer = &TimerView{SecondsRemaining: r.timerRemaining()}
	}

	return snap
}
