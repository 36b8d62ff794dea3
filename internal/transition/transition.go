// Package transition tracks the cosmetic change between two viewer images so
// a shell can drop repeated navigation while one is running.
package transition

import (
	"errors"
	"sync"
	"time"
)

// ErrInProgress is returned by Begin while another transition runs.
var ErrInProgress = errors.New("transition in progress")

// Direction is the navigation that started a transition.
type Direction int

const (
	None Direction = iota
	Forward
	Backward
	Jump
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Jump:
		return "jump"
	default:
		return "none"
	}
}

// Tracker is safe for concurrent use; a shell may end transitions from a timer.
type Tracker struct {
	mu        sync.Mutex
	duration  time.Duration
	now       func() time.Time
	direction Direction
	last      Direction
	started   time.Time
	active    bool
}

// New returns a tracker. With duration 0 a transition lasts until End; otherwise
// it also expires on its own once duration has elapsed.
func New(duration time.Duration) *Tracker {
	if duration < 0 {
		duration = 0
	}
	return &Tracker{duration: duration, now: time.Now}
}

// SetClock replaces the time source.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Duration returns the automatic expiry, 0 when disabled.
func (t *Tracker) Duration() time.Duration {
	return t.duration
}

// Begin starts a transition in direction d.
func (t *Tracker) Begin(d Direction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.activeLocked() {
		return ErrInProgress
	}
	t.active = true
	t.direction = d
	t.last = d
	t.started = t.now()
	return nil
}

// End finishes the running transition, if any.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	t.direction = None
}

// InProgress reports whether a transition is running.
func (t *Tracker) InProgress() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeLocked()
}

// Direction returns the direction of the running transition, or None.
func (t *Tracker) Direction() Direction {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.activeLocked() {
		return None
	}
	return t.direction
}

// Last returns the direction of the most recent transition, finished or not.
func (t *Tracker) Last() Direction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Tracker) activeLocked() bool {
	if !t.active {
		return false
	}
	if t.duration > 0 && t.now().Sub(t.started) >= t.duration {
		t.active = false
		t.direction = None
	}
	return t.active
}
