package room

import (
	"sync"
	"time"
)

// Timers schedules at most one pending callback per room code. Scheduling
// replaces any earlier pending timer for the same code; Cancel is best-effort
// and a firing that races cancellation must be made harmless by the caller
// (the coordinator's version-conditioned write takes care of that).
type Timers struct {
	mu      sync.Mutex
	pending map[string]*time.Timer

	now func() time.Time
}

func NewTimers() *Timers {
	return &Timers{
		pending: make(map[string]*time.Timer),
		now:     time.Now,
	}
}

// Schedule runs fn once at or after the absolute time at.
func (t *Timers) Schedule(code string, at time.Time, fn func()) {
	d := at.Sub(t.now())
	if d < 0 {
		d = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.pending[code]; ok {
		old.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		// Only clear the entry if it still refers to this timer; a reschedule
		// may have replaced it while we were waiting to fire.
		if t.pending[code] == timer {
			delete(t.pending, code)
		}
		t.mu.Unlock()
		fn()
	})
	t.pending[code] = timer
}

// Cancel stops the pending timer for code, if any.
func (t *Timers) Cancel(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.pending[code]; ok {
		timer.Stop()
		delete(t.pending, code)
	}
}

// Stop cancels every pending timer.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for code, timer := range t.pending {
		timer.Stop()
		delete(t.pending, code)
	}
}
