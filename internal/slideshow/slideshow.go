// Package slideshow advances the viewer on a timer.
package slideshow

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultInterval is used for non-positive intervals.
	DefaultInterval = 2 * time.Second
	// MinInterval is the shortest accepted interval.
	MinInterval = 100 * time.Millisecond
)

// Manager holds play/pause state and drives a step function while playing.
type Manager struct {
	mu                 sync.Mutex
	isPaused           bool
	wasPlayingBeforeOp bool // playing before Pause(true)
	interval           time.Duration
}

// NewManager creates a Manager. It starts paused unless autoplay is set.
func NewManager(interval time.Duration, autoplay bool) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	} else if interval < MinInterval {
		interval = MinInterval
	}
	return &Manager{
		isPaused: !autoplay,
		interval: interval,
	}
}

// TogglePlayPause flips play/pause and returns true when now playing.
func (m *Manager) TogglePlayPause() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isPaused = !m.isPaused
	m.wasPlayingBeforeOp = false // an explicit toggle wins over a pending resume
	return !m.isPaused
}

// Pause stops the slideshow. With forOperation set it remembers whether it
// was playing so ResumeAfterOperation can restart it.
func (m *Manager) Pause(forOperation bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if forOperation {
		m.wasPlayingBeforeOp = !m.isPaused
	}
	m.isPaused = true
}

// ResumeAfterOperation resumes only if the slideshow was playing before Pause(true).
func (m *Manager) ResumeAfterOperation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wasPlayingBeforeOp {
		m.isPaused = false
	}
	m.wasPlayingBeforeOp = false
}

// IsPaused returns true if the slideshow is currently paused.
func (m *Manager) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isPaused
}

// Interval returns the time between steps.
func (m *Manager) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Run calls step every interval while playing, until ctx is done.
func (m *Manager) Run(ctx context.Context, step func()) {
	ticker := time.NewTicker(m.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.IsPaused() {
				step()
			}
		}
	}
}
