// Package timing measures how long a command and its phases take.
package timing

import (
	"sync"
	"time"
)

// Timer tracks total elapsed time and named phases
type Timer struct {
	start  time.Time
	now    func() time.Time
	phases map[string]int64
	mu     sync.Mutex
}

// New creates a Timer started now
func New() *Timer {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Timer {
	return &Timer{
		start:  now(),
		now:    now,
		phases: make(map[string]int64),
	}
}

// ElapsedMs returns milliseconds since the timer was created
func (t *Timer) ElapsedMs() int64 {
	return t.now().Sub(t.start).Milliseconds()
}

// Track starts a phase and returns the function that ends it.
// Tracking the same name twice accumulates.
//
//	done := timer.Track("open")
//	defer done()
func (t *Timer) Track(name string) func() int64 {
	begin := t.now()
	return func() int64 {
		d := t.now().Sub(begin).Milliseconds()
		t.mu.Lock()
		t.phases[name] += d
		t.mu.Unlock()
		return d
	}
}

// Phases returns a copy of the recorded phase durations
func (t *Timer) Phases() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[string]int64, len(t.phases))
	for k, v := range t.phases {
		result[k] = v
	}
	return result
}
