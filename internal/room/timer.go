package room

import (
	"time"

	"github.com/rs/zerolog/log"
)

// The round timer is advisory wall-clock state: the server broadcasts
// ticks so every client counts down in sync, but expiry never reveals
// the round. The moderator must still reveal explicitly.

// StartTimer arms the countdown, replacing any running timer.
func (r *Room) StartTimer(actorID string, seconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(actorID, "Only moderator can start timer"); err != nil {
		return err
	}
	if seconds <= 0 {
		return opErr(KindValidation, "Timer duration must be positive")
	}

	r.cancelTimerLocked()

	stop := make(chan struct{})
	r.timerStop = stop
	r.timerDeadline = r.clock.Now().Add(time.Duration(seconds) * time.Second)
	go r.runTimer(stop)

	log.Debug().
		Str("room_id", r.id).
		Int("seconds", seconds).
		Msg("timer started")

	r.touch()
	r.broadcastLocked()
	r.sink.TimerTick(r.id, seconds)
	return nil
}

// StopTimer cancels the countdown without further effect on the round.
func (r *Room) StopTimer(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireModeratorLocked(actorID, "Only moderator can stop timer"); err != nil {
		return err
	}

	r.cancelTimerLocked()
	r.touch()
	r.broadcastLocked()
	return nil
}

// runTimer emits a tick each second until the deadline passes or the
// timer is cancelled. Ticks are posted under the room lock so they
// serialize with every other mutation.
func (r *Room) runTimer(stop chan struct{}) {
	ticker := r.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			r.mu.Lock()
			if r.timerStop != stop {
				r.mu.Unlock()
				return
			}
			remaining := r.timerRemaining()
			if remaining <= 0 {
				r.timerStop = nil
				r.timerDeadline = time.Time{}
				r.sink.TimerTick(r.id, 0)
				r.broadcastLocked()
				r.mu.Unlock()
				return
			}
			r.sink.TimerTick(r.id, remaining)
			r.mu.Unlock()
		}
	}
}

// timerRemaining returns the whole seconds left, rounded up. Callers
// must hold r.mu.
func (r *Room) timerRemaining() int {
	d := r.timerDeadline.Sub(r.clock.Now())
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func (r *Room) cancelTimerLocked() {
	if r.timerStop != nil {
		close(r.timerStop)
		r.timerStop = nil
		r.timerDeadline = time.Time{}
	}
}
