// Package gesture turns raw pointer movement and key names into viewer actions.
package gesture

import "math"

// DefaultThreshold is the minimum horizontal travel, in pixels, of a swipe.
const DefaultThreshold = 50

// Direction is the horizontal direction of a completed swipe.
type Direction int

const (
	None Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Action returns the navigation a swipe stands for: left advances, right retreats.
func (d Direction) Action() Action {
	switch d {
	case Left:
		return ActionNext
	case Right:
		return ActionPrev
	default:
		return ActionNone
	}
}

// Point is a pointer position.
type Point struct {
	X, Y float64
}

// Detector tracks one pointer drag at a time.
type Detector struct {
	threshold float64
	start     Point
	last      Point
	active    bool
}

// NewDetector returns a detector; a non-positive threshold selects DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Threshold returns the configured distance.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Active reports whether a drag is in progress.
func (d *Detector) Active() bool {
	return d.active
}

// Begin records the start of a drag.
func (d *Detector) Begin(p Point) {
	d.start = p
	d.last = p
	d.active = true
}

// Move records an intermediate position. Moves without Begin start a drag.
func (d *Detector) Move(p Point) {
	if !d.active {
		d.Begin(p)
		return
	}
	d.last = p
}

// End finishes the drag at p and classifies it.
func (d *Detector) End(p Point) Direction {
	if !d.active {
		return None
	}
	d.active = false
	d.last = p
	return Classify(d.start, p, d.threshold)
}

// EndAtLast finishes the drag at the last known position.
func (d *Detector) EndAtLast() Direction {
	return d.End(d.last)
}

// Cancel drops the current drag.
func (d *Detector) Cancel() {
	d.active = false
}

// Classify interprets a start/end pair. Only horizontal-dominant movement
// beyond threshold counts.
func Classify(start, end Point, threshold float64) Direction {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= threshold {
		return None
	}
	if dx < 0 {
		return Left
	}
	return Right
}
