package ecs

import "time"

type TimerID uint64

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

// Timers runs single-shot deferred tasks on the world's frame clock. Tasks
// only fire from Advance, never concurrently with a frame update.
type Timers struct {
	now     time.Duration
	nextID  TimerID
	pending []timer
}

func NewTimers() *Timers {
	return &Timers{}
}

// After schedules fn to run once delay has elapsed on the frame clock.
func (t *Timers) After(delay time.Duration, fn func()) TimerID {
	if t == nil || fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	t.nextID++
	t.pending = append(t.pending, timer{id: t.nextID, due: t.now + delay, fn: fn})
	return t.nextID
}

// Cancel drops a pending task. It reports false when the task already ran or
// never existed.
func (t *Timers) Cancel(id TimerID) bool {
	if t == nil || id == 0 {
		return false
	}
	for i, tm := range t.pending {
		if tm.id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by dt and runs every task now due, earliest
// first, ties in scheduling order.
func (t *Timers) Advance(dt time.Duration) {
	if t == nil {
		return
	}
	if dt > 0 {
		t.now += dt
	}
	for {
		idx := -1
		for i, tm := range t.pending {
			if tm.due > t.now {
				continue
			}
			if idx < 0 || tm.due < t.pending[idx].due || (tm.due == t.pending[idx].due && tm.id < t.pending[idx].id) {
				idx = i
			}
		}
		if idx < 0 {
			return
		}
		fn := t.pending[idx].fn
		t.pending = append(t.pending[:idx], t.pending[idx+1:]...)
		fn()
	}
}

// Now returns the total time advanced so far.
func (t *Timers) Now() time.Duration {
	if t == nil {
		return 0
	}
	return t.now
}

func (t *Timers) Pending() int {
	if t == nil {
		return 0
	}
	return len(t.pending)
}
