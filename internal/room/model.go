package room

import "time"

// Role is a participant's capability level within a room.
type Role string

const (
	RoleModerator Role = "moderator"
	RoleVoter     Role = "voter"
	RoleSpectator Role = "spectator"
)

// ValidRole reports whether r is a role a client may request on join.
func ValidRole(r Role) bool {
	return r == RoleModerator || r == RoleVoter || r == RoleSpectator
}

// Participant is one member of a room. The ID is stable across
// reconnects and never reused after removal.
type Participant struct {
	ID        string
	Name      string
	Role      Role
	Connected bool
	JoinedAt  time.Time
}

// Vote is a single cast estimate. Its value stays hidden from other
// participants until the round is revealed.
type Vote struct {
	ParticipantID string
	Value         string
	CastAt        time.Time
}

// Round is one voting cycle over a single story.
type Round struct {
	Story     string
	StoryLink string
	Number    int
	Revealed  bool
	Votes     map[string]Vote
}

func newRound(number int, story, storyLink string) *Round {
	return &Round{
		Story:     story,
		StoryLink: storyLink,
		Number:    number,
		Votes:     make(map[string]Vote),
	}
}
