package room_test

import (
	"testing"
	"time"

	"github.com/bluedynamics/bdapoker/internal/room"
)

func TestTimerAuthorization(t *testing.T) {
	rm, _, _, _ := newTestRoom(t)
	mustJoin(t, rm, "mod", "Mod", room.RoleVoter)
	mustJoin(t, rm, "a", "A", room.RoleVoter)

	if err := rm.StartTimer("a", 60); room.KindOf(err) != room.KindAuthorization {
		t.Errorf("non-moderator start timer: kind = %v, want authorization", room.KindOf(err))
	}
	if err := rm.StopTimer("a"); room.KindOf(err) != room.KindAuthorization {
		t.Errorf("non-moderator stop timer: kind = %v, want authorization", room.KindOf(err))
	}
	if err := rm.StartTimer("mod", 0); room.KindOf(err) != room.KindValidation {
		t.Errorf("zero duration: kind = %v, want validation", room.KindOf(err))
	}
}

func TestTimerCountsDownAndExpires(t *testing.T) {
	rm, sink, clock, _ := newTestRoom(t)
	mustJoin(t, rm, "mod", "Mod", room.RoleVoter)
	if err := rm.StartRound("mod", "Story", ""); err != nil {
		t.Fatal(err)
	}

	if err := rm.StartTimer("mod", 3); err != nil {
		t.Fatal(err)
	}
	if tick, ok := sink.lastTick(); !ok || tick != 3 {
		t.Fatalf("initial tick = %d, %v; want 3", tick, ok)
	}
	snap := sink.lastState()
	if snap.Timer == nil || snap.Timer.SecondsRemaining != 3 {
		t.Fatalf("snapshot timer = %+v, want 3s", snap.Timer)
	}

	// Wait for the tick loop to register its ticker before advancing.
	clock.BlockUntil(1)

	for _, want := range []int{2, 1, 0} {
		clock.Advance(time.Second)
		waitFor(t, func() bool {
			tick, ok := sink.lastTick()
			return ok && tick == want
		})
	}

	// Expiry clears the timer but never auto-reveals.
	waitFor(t, func() bool { return sink.lastState().Timer == nil })
	if sink.lastState().CurrentRound.Revealed {
		t.Error("timer expiry must not reveal the round")
	}
}

func TestStopTimerClearsState(t *testing.T) {
	rm, sink, _, _ := newTestRoom(t)
	mustJoin(t, rm, "mod", "Mod", room.RoleVoter)

	if err := rm.StartTimer("mod", 60); err != nil {
		t.Fatal(err)
	}
	if sink.lastState().Timer == nil {
		t.Fatal("timer missing from snapshot after start")
	}
	if err := rm.StopTimer("mod"); err != nil {
		t.Fatal(err)
	}
	if sink.lastState().Timer != nil {
		t.Error("timer still in snapshot after stop")
	}
}

func TestStartRoundCancelsTimer(t *testing.T) {
	rm, sink, _, _ := newTestRoom(t)
	mustJoin(t, rm, "mod", "Mod", room.RoleVoter)

	if err := rm.StartTimer("mod", 60); err != nil {
		t.Fatal(err)
	}
	if err := rm.StartRound("mod", "Story", ""); err != nil {
		t.Fatal(err)
	}
	if sink.lastState().Timer != nil {
		t.Error("starting a round should cancel the running timer")
	}
}

func TestResetRoundCancelsTimer(t *testing.T) {
	rm, sink, _, _ := newTestRoom(t)
	mustJoin(t, rm, "mod", "Mod", room.RoleVoter)
	if err := rm.StartRound("mod", "Story", ""); err != nil {
		t.Fatal(err)
	}
	if err := rm.StartTimer("mod", 60); err != nil {
		t.Fatal(err)
	}
	if err := rm.ResetRound("mod"); err != nil {
		t.Fatal(err)
	}
	if sink.lastState().Timer != nil {
		t.Error("resetting a round should cancel the running timer")
	}
}
