package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fygallery/internal/config"
	"fygallery/internal/gallery"
	"fygallery/internal/gesture"
	"fygallery/internal/history"
	"fygallery/internal/index"
	"fygallery/internal/navigation"
	"fygallery/internal/selection"
	"fygallery/internal/transition"
)

// ViewOptions configures a ViewManager.
type ViewOptions struct {
	CrossGroup    bool
	ShowGroupInfo bool
	HistorySize   int
	// TransitionDuration is how long Next/Prev stay suppressed after a move.
	// Zero disables suppression.
	TransitionDuration time.Duration
	KeyMap             *gesture.KeyMap
}

// DefaultViewOptions mirrors config.Default.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		CrossGroup:    true,
		ShowGroupInfo: true,
		HistorySize:   50,
		KeyMap:        gesture.DefaultKeyMap(),
	}
}

// ViewOptionsFromConfig builds options from the loaded configuration.
func ViewOptionsFromConfig(cfg *config.Config) (ViewOptions, error) {
	km, err := cfg.KeyMap()
	if err != nil {
		return ViewOptions{}, err
	}
	return ViewOptions{
		CrossGroup:         cfg.Viewer.CrossGroup,
		ShowGroupInfo:      cfg.Viewer.ShowGroupInfo,
		HistorySize:        cfg.Viewer.HistorySize,
		TransitionDuration: cfg.TransitionDuration(),
		KeyMap:             km,
	}, nil
}

// GroupSummary describes one group for a picker.
type GroupSummary struct {
	ID       string
	Name     string
	Count    int
	Selected bool
}

// Snapshot is everything a shell needs to render one frame.
type Snapshot struct {
	ViewerOpen    bool
	CrossGroup    bool
	ShowGroupInfo bool
	Total         int

	// Viewer fields, valid while ViewerOpen.
	Current   index.Entry
	Counter   string // "i / n", 1-based
	GroupName string // empty unless ShowGroupInfo
	HasPrev   bool
	HasNext   bool

	SelectedGroupID   string
	SelectedGroupName string
	SelectedImages    []gallery.Image
	Groups            []GroupSummary

	Transition transition.Direction
	CanBack    bool
	CanForward bool
}

// ViewManager connects the index, navigation engine and selection tracker
// for one presentation shell. It is not safe for concurrent use.
type ViewManager struct {
	collection *gallery.Collection
	memo       index.Memo
	mapping    *index.Mapping
	engine     *navigation.Engine
	selection  *selection.Tracker
	history    *history.Manager[gallery.ImageRef]
	transition *transition.Tracker
	keys       *gesture.KeyMap
	opts       ViewOptions
}

// NewViewManager creates a closed viewer over c with the first group selected.
func NewViewManager(c *gallery.Collection, opts ViewOptions) *ViewManager {
	if opts.KeyMap == nil {
		opts.KeyMap = gesture.DefaultKeyMap()
	}
	vm := &ViewManager{
		collection: c,
		selection:  selection.NewTracker(c.FirstGroupID()),
		history:    history.New[gallery.ImageRef](opts.HistorySize),
		transition: transition.New(opts.TransitionDuration),
		keys:       opts.KeyMap,
		opts:       opts,
	}
	vm.mapping = vm.memo.Get(c)
	vm.engine = navigation.New(vm.mapping, opts.CrossGroup)
	return vm
}

// Collection returns the collection being viewed.
func (vm *ViewManager) Collection() *gallery.Collection {
	return vm.collection
}

// Mapping returns the current flattened index.
func (vm *ViewManager) Mapping() *index.Mapping {
	return vm.mapping
}

// State returns the navigation state.
func (vm *ViewManager) State() navigation.State {
	return vm.engine.State()
}

// SelectedGroup returns the active group id.
func (vm *ViewManager) SelectedGroup() string {
	return vm.selection.Selected()
}

// Transitions exposes the transition tracker to shells that animate.
func (vm *ViewManager) Transitions() *transition.Tracker {
	return vm.transition
}

// SetCollection swaps in new data. The open image is followed by identity;
// if it no longer exists the viewer closes. The selected group survives when
// it still exists, otherwise the first group is selected.
func (vm *ViewManager) SetCollection(c *gallery.Collection) {
	m := vm.memo.Get(c)
	if c == vm.collection && m == vm.mapping {
		return
	}
	ref, wasOpen := vm.CurrentRef()

	vm.collection = c
	vm.mapping = m
	vm.engine.Rebind(m)
	vm.transition.End()

	if wasOpen {
		if i, err := m.Locate(ref); err == nil {
			_ = vm.engine.Open(i)
		}
	}
	if _, ok := c.Group(vm.selection.Selected()); !ok {
		vm.selection.Reset(c.FirstGroupID())
	}
	vm.sync()
	vm.history.RemoveFunc(func(r gallery.ImageRef) bool {
		_, err := m.Locate(r)
		return err != nil
	})
}

// SelectGroup is the group picker action. It is refused while the viewer is open.
func (vm *ViewManager) SelectGroup(groupID string) error {
	if _, ok := vm.collection.Group(groupID); !ok {
		return fmt.Errorf("%w: group %q", index.ErrNotFound, groupID)
	}
	return vm.selection.Pick(groupID, vm.engine.State().ViewerOpen)
}

// OpenLocal opens the image at localIndex of the selected group, as a click
// on a grid tile does.
func (vm *ViewManager) OpenLocal(localIndex int) error {
	i, err := vm.mapping.GlobalIndexOf(vm.selection.Selected(), localIndex)
	if err != nil {
		return err
	}
	return vm.Open(i)
}

// Open shows the image at global index i.
func (vm *ViewManager) Open(i int) error {
	if err := vm.engine.Open(i); err != nil {
		return err
	}
	vm.transition.End()
	vm.sync()
	vm.record()
	return nil
}

// Close hides the viewer; the selected group stays as navigation left it.
func (vm *ViewManager) Close() {
	vm.engine.Close()
	vm.transition.End()
	vm.sync()
}

// JumpTo moves an open viewer to localIndex of groupID.
func (vm *ViewManager) JumpTo(groupID string, localIndex int) (index.Entry, error) {
	i, err := vm.mapping.GlobalIndexOf(groupID, localIndex)
	if err != nil {
		return index.Entry{}, err
	}
	return vm.move(transition.Jump, func() error { return vm.engine.JumpTo(i) })
}

// Next advances under the current wrap policy.
func (vm *ViewManager) Next() (index.Entry, error) {
	return vm.move(transition.Forward, func() error {
		_, err := vm.engine.Advance()
		return err
	})
}

// Prev retreats under the current wrap policy.
func (vm *ViewManager) Prev() (index.Entry, error) {
	return vm.move(transition.Backward, func() error {
		_, err := vm.engine.Retreat()
		return err
	})
}

// First jumps to the start of the navigable range: the collection in
// cross-group mode, otherwise the current group.
func (vm *ViewManager) First() (index.Entry, error) {
	return vm.moveToBound(func(r index.Range) int { return r.Start })
}

// Last jumps to the end of the navigable range.
func (vm *ViewManager) Last() (index.Entry, error) {
	return vm.moveToBound(func(r index.Range) int { return r.End })
}

// ToggleCrossGroup flips the wrap policy without moving.
func (vm *ViewManager) ToggleCrossGroup() bool {
	return vm.engine.ToggleCrossGroup()
}

// SetCrossGroup sets the wrap policy without moving.
func (vm *ViewManager) SetCrossGroup(enabled bool) {
	vm.engine.SetCrossGroup(enabled)
}

// Back returns to the previously viewed image.
func (vm *ViewManager) Back() (index.Entry, error) {
	return vm.moveInHistory(vm.history.Back)
}

// Forward undoes a Back.
func (vm *ViewManager) Forward() (index.Entry, error) {
	return vm.moveInHistory(vm.history.Forward)
}

// EndTransition marks the running transition as finished.
func (vm *ViewManager) EndTransition() {
	vm.transition.End()
}

// HandleKey runs the action bound to key. Unbound keys are ignored. Viewer
// actions need an open viewer; toggle_play is returned for the shell to handle.
func (vm *ViewManager) HandleKey(key string) (gesture.Action, error) {
	action := vm.keys.Lookup(key)
	if action == gesture.ActionNone || action == gesture.ActionTogglePlay {
		return action, nil
	}
	if !vm.engine.State().ViewerOpen {
		return action, fmt.Errorf("%w: key %s while viewer closed", navigation.ErrInvalidState, key)
	}
	var err error
	switch action {
	case gesture.ActionNext:
		_, err = vm.Next()
	case gesture.ActionPrev:
		_, err = vm.Prev()
	case gesture.ActionClose:
		vm.Close()
	case gesture.ActionToggleCrossGroup:
		vm.ToggleCrossGroup()
	case gesture.ActionBack:
		_, err = vm.Back()
	case gesture.ActionForward:
		_, err = vm.Forward()
	case gesture.ActionFirst:
		_, err = vm.First()
	case gesture.ActionLast:
		_, err = vm.Last()
	}
	return action, err
}

// HandleSwipe maps a completed swipe onto navigation.
func (vm *ViewManager) HandleSwipe(d gesture.Direction) (index.Entry, error) {
	switch d.Action() {
	case gesture.ActionNext:
		return vm.Next()
	case gesture.ActionPrev:
		return vm.Prev()
	default:
		return index.Entry{}, nil
	}
}

// Current returns the entry shown by the viewer.
func (vm *ViewManager) Current() (index.Entry, error) {
	s := vm.engine.State()
	if !s.ViewerOpen {
		return index.Entry{}, fmt.Errorf("%w: viewer closed", navigation.ErrInvalidState)
	}
	return vm.mapping.ByGlobalIndex(s.CurrentGlobalIndex)
}

// CurrentRef returns the identity of the shown image.
func (vm *ViewManager) CurrentRef() (gallery.ImageRef, bool) {
	e, err := vm.Current()
	if err != nil {
		return gallery.ImageRef{}, false
	}
	return e.Ref(), true
}

// Snapshot returns the render state.
func (vm *ViewManager) Snapshot() Snapshot {
	s := vm.engine.State()
	total := vm.mapping.TotalCount()
	snap := Snapshot{
		ViewerOpen:      s.ViewerOpen,
		CrossGroup:      s.CrossGroupEnabled,
		ShowGroupInfo:   vm.opts.ShowGroupInfo,
		Total:           total,
		SelectedGroupID: vm.selection.Selected(),
		Transition:      vm.transition.Direction(),
		CanBack:         s.ViewerOpen && vm.history.CanBack(),
		CanForward:      s.ViewerOpen && vm.history.CanForward(),
	}

	if g, ok := vm.collection.Group(snap.SelectedGroupID); ok {
		snap.SelectedGroupName = g.DisplayName()
		snap.SelectedImages = g.Images
	}
	if vm.collection != nil {
		for _, g := range vm.collection.Groups {
			snap.Groups = append(snap.Groups, GroupSummary{
				ID:       g.ID,
				Name:     g.DisplayName(),
				Count:    g.Len(),
				Selected: g.ID == snap.SelectedGroupID,
			})
		}
	}

	if e, err := vm.Current(); err == nil {
		snap.Current = e
		snap.Counter = strconv.Itoa(e.GlobalIndex+1) + " / " + strconv.Itoa(total)
		if vm.opts.ShowGroupInfo {
			snap.GroupName = e.GroupID
			if g, ok := vm.collection.Group(e.GroupID); ok {
				snap.GroupName = g.DisplayName()
			}
		}
		if r, err := vm.engine.Bounds(); err == nil {
			snap.HasPrev = r.Len() > 1
			snap.HasNext = r.Len() > 1
		}
	}
	return snap
}

func (vm *ViewManager) move(d transition.Direction, op func() error) (index.Entry, error) {
	if !vm.engine.State().ViewerOpen {
		return index.Entry{}, fmt.Errorf("%w: viewer closed", navigation.ErrInvalidState)
	}
	if err := vm.transition.Begin(d); err != nil {
		return index.Entry{}, err
	}
	if err := op(); err != nil {
		vm.transition.End()
		return index.Entry{}, err
	}
	if vm.opts.TransitionDuration == 0 {
		vm.transition.End()
	}
	vm.sync()
	vm.record()
	return vm.Current()
}

func (vm *ViewManager) moveToBound(pick func(index.Range) int) (index.Entry, error) {
	r, err := vm.engine.Bounds()
	if err != nil {
		return index.Entry{}, err
	}
	target := pick(r)
	return vm.move(transition.Jump, func() error { return vm.engine.JumpTo(target) })
}

func (vm *ViewManager) moveInHistory(step func() (gallery.ImageRef, bool)) (index.Entry, error) {
	if !vm.engine.State().ViewerOpen {
		return index.Entry{}, fmt.Errorf("%w: viewer closed", navigation.ErrInvalidState)
	}
	if vm.transition.InProgress() {
		return index.Entry{}, transition.ErrInProgress
	}
	ref, ok := step()
	if !ok {
		return index.Entry{}, fmt.Errorf("%w: no history entry", index.ErrNotFound)
	}
	i, err := vm.mapping.Locate(ref)
	if err != nil {
		vm.history.Remove(ref)
		return index.Entry{}, err
	}
	if err := vm.engine.JumpTo(i); err != nil {
		return index.Entry{}, err
	}
	vm.sync()
	return vm.Current()
}

func (vm *ViewManager) sync() {
	vm.selection.Sync(vm.mapping, vm.engine.State())
}

func (vm *ViewManager) record() {
	if ref, ok := vm.CurrentRef(); ok {
		vm.history.Record(ref)
	}
}

// IsRoutine reports whether err is one of the expected navigation outcomes
// that shells ignore silently.
func IsRoutine(err error) bool {
	return errors.Is(err, index.ErrInvalidIndex) ||
		errors.Is(err, index.ErrNotFound) ||
		errors.Is(err, navigation.ErrInvalidState) ||
		errors.Is(err, transition.ErrInProgress) ||
		errors.Is(err, selection.ErrPickerLocked)
}
