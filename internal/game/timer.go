package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// timerSlot is the session's single one-shot timer. At most one of the
// countdown step, dictation pause, settle, feedback, and question-advance
// timers is ever live at a time, so one slot serves them all; scheduling a
// new callback implicitly cancels the previous one.
//
// A cancel or re-schedule drops the old timer handle, so channel() stops
// returning its chan and a pending expiry in it can never reach the
// session's select loop.
type timerSlot struct {
	clock clockwork.Clock
	timer clockwork.Timer
	fn    func()
	delay time.Duration
}

func newTimerSlot(clock clockwork.Clock) *timerSlot {
	return &timerSlot{clock: clock}
}

// schedule arms the slot, replacing any live callback.
func (t *timerSlot) schedule(d time.Duration, fn func()) {
	t.cancel()
	t.fn = fn
	t.delay = d
	t.timer = t.clock.NewTimer(d)
}

// cancel disarms the slot.
func (t *timerSlot) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.fn = nil
	t.delay = 0
}

// channel exposes the live timer's expiry channel for the session's select
// loop; nil (never ready) when the slot is idle.
func (t *timerSlot) channel() <-chan time.Time {
	if t.timer == nil {
		return nil
	}
	return t.timer.Chan()
}

// armed reports whether a callback is waiting to fire.
func (t *timerSlot) armed() bool { return t.fn != nil }

// fire runs the armed callback once and disarms the slot first, so the
// callback may schedule the slot again.
func (t *timerSlot) fire() {
	fn := t.fn
	t.fn = nil
	t.timer = nil
	t.delay = 0
	if fn != nil {
		fn()
	}
}
