// Package navigation moves a single cursor over a flattened gallery index.
package navigation

import (
	"errors"
	"fmt"

	"fygallery/internal/index"
)

// ErrInvalidState is returned for operations that need an open viewer.
var ErrInvalidState = errors.New("invalid navigation state")

// Closed is the current index while the viewer is closed.
const Closed = -1

// State is a read-only view of the engine.
type State struct {
	ViewerOpen         bool
	CurrentGlobalIndex int
	CrossGroupEnabled  bool
}

// Engine holds the navigation state for one mapping. It is not safe for
// concurrent use; a shell owns it.
type Engine struct {
	mapping    *index.Mapping
	current    int
	open       bool
	crossGroup bool
}

// New returns a closed engine over m.
func New(m *index.Mapping, crossGroup bool) *Engine {
	return &Engine{mapping: m, current: Closed, crossGroup: crossGroup}
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return State{ViewerOpen: e.open, CurrentGlobalIndex: e.current, CrossGroupEnabled: e.crossGroup}
}

// Mapping returns the mapping the engine navigates.
func (e *Engine) Mapping() *index.Mapping {
	return e.mapping
}

// Rebind switches to a rebuilt mapping and closes the viewer. Callers that
// want to keep the viewer open re-open it at the relocated index.
func (e *Engine) Rebind(m *index.Mapping) {
	e.mapping = m
	e.Close()
}

// Open shows the image at global index i.
func (e *Engine) Open(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.current = i
	e.open = true
	return nil
}

// Close hides the viewer. Closing a closed engine is a no-op.
func (e *Engine) Close() {
	e.open = false
	e.current = Closed
}

// JumpTo repositions an open viewer.
func (e *Engine) JumpTo(i int) error {
	if !e.open {
		return fmt.Errorf("%w: jump while closed", ErrInvalidState)
	}
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.current = i
	return nil
}

// Advance moves to the next image and returns the new index.
func (e *Engine) Advance() (int, error) {
	return e.step(1)
}

// Retreat moves to the previous image and returns the new index.
func (e *Engine) Retreat() (int, error) {
	return e.step(-1)
}

// ToggleCrossGroup flips the wrap policy and returns the new value. The
// current index does not move.
func (e *Engine) ToggleCrossGroup() bool {
	e.crossGroup = !e.crossGroup
	return e.crossGroup
}

// SetCrossGroup sets the wrap policy.
func (e *Engine) SetCrossGroup(enabled bool) {
	e.crossGroup = enabled
}

// Bounds returns the interval advance and retreat wrap within: the whole
// collection in cross-group mode, otherwise the current group's range.
func (e *Engine) Bounds() (index.Range, error) {
	if !e.open {
		return index.Range{}, fmt.Errorf("%w: viewer closed", ErrInvalidState)
	}
	if e.crossGroup {
		return index.Range{Start: 0, End: e.mapping.TotalCount() - 1}, nil
	}
	entry, err := e.mapping.ByGlobalIndex(e.current)
	if err != nil {
		return index.Range{}, err
	}
	return e.mapping.RangeOf(entry.GroupID)
}

func (e *Engine) step(delta int) (int, error) {
	if !e.open {
		return Closed, fmt.Errorf("%w: navigation while closed", ErrInvalidState)
	}
	r, err := e.Bounds()
	if err != nil {
		return e.current, err
	}
	n := r.Len()
	e.current = r.Start + ((e.current-r.Start+delta)%n+n)%n
	return e.current, nil
}

func (e *Engine) checkIndex(i int) error {
	total := e.mapping.TotalCount()
	if i < 0 || i >= total {
		return fmt.Errorf("%w: global index %d out of bounds (total: %d)", index.ErrInvalidIndex, i, total)
	}
	return nil
}
