// Package selection keeps the active group in step with the image the viewer shows.
package selection

import (
	"errors"
	"fmt"

	"fygallery/internal/index"
	"fygallery/internal/navigation"
)

// ErrPickerLocked is returned when the group picker is used while navigation
// drives the selection.
var ErrPickerLocked = errors.New("group picker locked while viewer is open")

// Derive returns the group of the entry at current, or previous when current
// does not name an entry (viewer closed).
func Derive(m *index.Mapping, current int, previous string) string {
	entry, err := m.ByGlobalIndex(current)
	if err != nil {
		return previous
	}
	return entry.GroupID
}

// Tracker owns the selected group id.
type Tracker struct {
	selected string
}

// NewTracker starts with initial selected.
func NewTracker(initial string) *Tracker {
	return &Tracker{selected: initial}
}

// Selected returns the active group id.
func (t *Tracker) Selected() string {
	return t.selected
}

// Sync re-derives the selection from a navigation state. Call it after every
// navigation mutation.
func (t *Tracker) Sync(m *index.Mapping, s navigation.State) string {
	current := navigation.Closed
	if s.ViewerOpen {
		current = s.CurrentGlobalIndex
	}
	t.selected = Derive(m, current, t.selected)
	return t.selected
}

// Pick is the explicit user choice from the group picker.
func (t *Tracker) Pick(groupID string, viewerOpen bool) error {
	if viewerOpen {
		return fmt.Errorf("%w: pick %q", ErrPickerLocked, groupID)
	}
	t.selected = groupID
	return nil
}

// Reset replaces the selection unconditionally, e.g. after the collection changed.
func (t *Tracker) Reset(groupID string) {
	t.selected = groupID
}
