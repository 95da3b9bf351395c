package token

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

const ttl = 4 * time.Hour

func TestIssueAndValidate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	tok := s.Issue("room1", "p1")
	if tok == "" {
		t.Fatal("Issue returned empty token")
	}
	if !s.Validate("room1", "p1", tok) {
		t.Error("freshly issued token should validate")
	}
	if s.Validate("room1", "p1", "wrong") {
		t.Error("wrong token should not validate")
	}
	if s.Validate("room2", "p1", tok) {
		t.Error("token should be bound to its room")
	}
	if s.Validate("room1", "p2", tok) {
		t.Error("token should be bound to its participant")
	}
}

func TestReissueInvalidatesPrevious(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	first := s.Issue("room1", "p1")
	second := s.Issue("room1", "p1")
	if first == second {
		t.Fatal("reissue returned the same token")
	}
	if s.Validate("room1", "p1", first) {
		t.Error("previous token should be invalid after reissue")
	}
	if !s.Validate("room1", "p1", second) {
		t.Error("current token should validate")
	}
}

func TestExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	tok := s.Issue("room1", "p1")
	clock.Advance(ttl + time.Minute)
	if s.Validate("room1", "p1", tok) {
		t.Error("expired token should not validate")
	}
	if _, ok := s.Get("room1", "p1"); ok {
		t.Error("Get should not return an expired token")
	}
}

func TestSlidingWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	tok := s.Issue("room1", "p1")

	// Each successful validation pushes the expiry forward.
	clock.Advance(3 * time.Hour)
	if !s.Validate("room1", "p1", tok) {
		t.Fatal("token should still be valid before expiry")
	}
	clock.Advance(3 * time.Hour)
	if !s.Validate("room1", "p1", tok) {
		t.Error("validation should have slid the expiry window")
	}
	clock.Advance(ttl + time.Minute)
	if s.Validate("room1", "p1", tok) {
		t.Error("token should expire once the window lapses unused")
	}
}

func TestRevoke(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	tok := s.Issue("room1", "p1")
	s.Revoke("room1", "p1")
	if s.Validate("room1", "p1", tok) {
		t.Error("revoked token should not validate")
	}
}

func TestRevokeRoom(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	tok1 := s.Issue("room1", "p1")
	tok2 := s.Issue("room1", "p2")
	other := s.Issue("room2", "p3")

	s.RevokeRoom("room1")
	if s.Validate("room1", "p1", tok1) || s.Validate("room1", "p2", tok2) {
		t.Error("room1 credentials should all be revoked")
	}
	if !s.Validate("room2", "p3", other) {
		t.Error("other rooms' credentials should be unaffected")
	}
}

func TestGetDoesNotSlideExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(clock, ttl)

	tok := s.Issue("room1", "p1")
	clock.Advance(3 * time.Hour)
	got, ok := s.Get("room1", "p1")
	if !ok || got != tok {
		t.Fatalf("Get = %q, %v; want %q, true", got, ok, tok)
	}
	clock.Advance(2 * time.Hour)
	if s.Validate("room1", "p1", tok) {
		t.Error("Get should not have extended the expiry")
	}
}
