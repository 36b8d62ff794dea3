package service

import (
	"errors"
	"testing"
	"time"

	"fygallery/internal/gallery"
	"fygallery/internal/gesture"
	"fygallery/internal/index"
	"fygallery/internal/navigation"
	"fygallery/internal/selection"
	"fygallery/internal/transition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groups [A:{a1,a2}, empty, B:{b1}]
func abCollection() *gallery.Collection {
	return &gallery.Collection{Name: "ab", Groups: []gallery.Group{
		{ID: "A", Name: "Alpha", Images: []gallery.Image{{ID: "a1", Title: "first"}, {ID: "a2"}}},
		{ID: "E", Name: "Empty"},
		{ID: "B", Images: []gallery.Image{{ID: "b1"}}},
	}}
}

func TestViewManagerInitialState(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	assert.Equal(t, "A", vm.SelectedGroup())
	assert.False(t, vm.State().ViewerOpen)

	snap := vm.Snapshot()
	assert.False(t, snap.ViewerOpen)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, "Alpha", snap.SelectedGroupName)
	assert.Len(t, snap.SelectedImages, 2)
	require.Len(t, snap.Groups, 3)
	assert.True(t, snap.Groups[0].Selected)
	assert.Equal(t, 0, snap.Groups[1].Count)
	assert.Equal(t, "B", snap.Groups[2].Name, "name falls back to id")

	_, err := vm.Current()
	assert.True(t, errors.Is(err, navigation.ErrInvalidState))
}

func TestViewManagerCrossGroupScenario(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.OpenLocal(1))
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex)

	e, err := vm.Next()
	require.NoError(t, err)
	assert.Equal(t, "b1", e.Image.ID)
	assert.Equal(t, "B", vm.SelectedGroup(), "swiping into a neighbour group selects it")

	e, err = vm.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, e.GlobalIndex)
	assert.Equal(t, "A", vm.SelectedGroup())

	snap := vm.Snapshot()
	assert.Equal(t, "1 / 3", snap.Counter)
	assert.Equal(t, "Alpha", snap.GroupName)
	assert.True(t, snap.HasPrev)
	assert.True(t, snap.HasNext)
}

func TestViewManagerConfined(t *testing.T) {
	opts := DefaultViewOptions()
	opts.CrossGroup = false
	vm := NewViewManager(abCollection(), opts)

	require.NoError(t, vm.OpenLocal(1))
	e, err := vm.Next()
	require.NoError(t, err)
	assert.Equal(t, "a1", e.Image.ID)

	_, err = vm.JumpTo("B", 0)
	require.NoError(t, err)
	snap := vm.Snapshot()
	assert.False(t, snap.HasNext, "single-image group has nowhere to go")
	assert.False(t, snap.HasPrev)

	e, err = vm.Prev()
	require.NoError(t, err)
	assert.Equal(t, "b1", e.Image.ID)
}

func TestViewManagerPickerLockedWhileOpen(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.SelectGroup("B"))
	require.NoError(t, vm.OpenLocal(0))

	err := vm.SelectGroup("A")
	assert.True(t, errors.Is(err, selection.ErrPickerLocked))
	assert.True(t, IsRoutine(err))

	vm.Close()
	assert.Equal(t, "B", vm.SelectedGroup(), "selection persists across close")
	assert.True(t, errors.Is(vm.SelectGroup("nope"), index.ErrNotFound))
	require.NoError(t, vm.SelectGroup("E"))
	assert.True(t, errors.Is(vm.OpenLocal(0), index.ErrNotFound), "empty group has nothing to open")
}

func TestViewManagerClosedNavigation(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	for _, op := range []func() (index.Entry, error){vm.Next, vm.Prev, vm.First, vm.Last, vm.Back, vm.Forward} {
		_, err := op()
		assert.True(t, errors.Is(err, navigation.ErrInvalidState))
	}
	_, err := vm.JumpTo("A", 0)
	assert.True(t, errors.Is(err, navigation.ErrInvalidState))
	assert.True(t, errors.Is(vm.Open(3), index.ErrInvalidIndex))
}

func TestViewManagerFirstLast(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.Open(1))

	e, err := vm.Last()
	require.NoError(t, err)
	assert.Equal(t, 2, e.GlobalIndex)

	vm.SetCrossGroup(false)
	require.NoError(t, vm.Open(1))
	e, err = vm.First()
	require.NoError(t, err)
	assert.Equal(t, 0, e.GlobalIndex)
	e, err = vm.Last()
	require.NoError(t, err)
	assert.Equal(t, 1, e.GlobalIndex, "confined bounds stop at the group end")
}

func TestViewManagerTransitionSuppression(t *testing.T) {
	opts := DefaultViewOptions()
	opts.TransitionDuration = time.Hour
	vm := NewViewManager(abCollection(), opts)
	require.NoError(t, vm.Open(0))

	_, err := vm.Next()
	require.NoError(t, err)
	assert.Equal(t, transition.Forward, vm.Snapshot().Transition)

	_, err = vm.Next()
	assert.True(t, errors.Is(err, transition.ErrInProgress))
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex, "suppressed call does not move")

	vm.EndTransition()
	_, err = vm.Prev()
	require.NoError(t, err)
	assert.Equal(t, transition.Backward, vm.Transitions().Direction())

	vm.Close()
	assert.False(t, vm.Transitions().InProgress(), "closing ends the transition")
}

func TestViewManagerHistory(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.Open(0))
	_, err := vm.Next()
	require.NoError(t, err)
	_, err = vm.Next()
	require.NoError(t, err)

	e, err := vm.Back()
	require.NoError(t, err)
	assert.Equal(t, "a2", e.Image.ID)
	assert.Equal(t, "A", vm.SelectedGroup())
	assert.True(t, vm.Snapshot().CanForward)

	e, err = vm.Forward()
	require.NoError(t, err)
	assert.Equal(t, "b1", e.Image.ID)

	_, err = vm.Forward()
	assert.True(t, errors.Is(err, index.ErrNotFound))
}

func TestViewManagerHandleKey(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())

	action, err := vm.HandleKey("ArrowRight")
	assert.Equal(t, gesture.ActionNext, action)
	assert.True(t, errors.Is(err, navigation.ErrInvalidState), "keys are inactive while closed")

	action, err = vm.HandleKey("Space")
	assert.NoError(t, err)
	assert.Equal(t, gesture.ActionTogglePlay, action)

	require.NoError(t, vm.Open(0))
	_, err = vm.HandleKey("ArrowLeft")
	require.NoError(t, err)
	assert.Equal(t, 2, vm.State().CurrentGlobalIndex)

	_, err = vm.HandleKey("KeyC")
	require.NoError(t, err)
	assert.False(t, vm.State().CrossGroupEnabled)
	assert.Equal(t, 2, vm.State().CurrentGlobalIndex)

	action, err = vm.HandleKey("KeyQ")
	assert.NoError(t, err)
	assert.Equal(t, gesture.ActionNone, action)

	_, err = vm.HandleKey("Escape")
	require.NoError(t, err)
	assert.False(t, vm.State().ViewerOpen)
	assert.Equal(t, "B", vm.SelectedGroup())
}

func TestViewManagerHandleSwipe(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.Open(0))

	e, err := vm.HandleSwipe(gesture.Left)
	require.NoError(t, err)
	assert.Equal(t, 1, e.GlobalIndex)

	e, err = vm.HandleSwipe(gesture.Right)
	require.NoError(t, err)
	assert.Equal(t, 0, e.GlobalIndex)

	_, err = vm.HandleSwipe(gesture.None)
	assert.NoError(t, err)
	assert.Equal(t, 0, vm.State().CurrentGlobalIndex)
}

func TestViewManagerSetCollection(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.Open(2)) // b1

	// B moves to the front; b1 is followed by identity
	reordered := &gallery.Collection{Name: "ab", Groups: []gallery.Group{
		{ID: "B", Images: []gallery.Image{{ID: "b0"}, {ID: "b1"}}},
		{ID: "A", Images: []gallery.Image{{ID: "a1"}}},
	}}
	vm.SetCollection(reordered)
	require.True(t, vm.State().ViewerOpen)
	e, err := vm.Current()
	require.NoError(t, err)
	assert.Equal(t, "b1", e.Image.ID)
	assert.Equal(t, 1, e.GlobalIndex)

	// same pointer again is a no-op
	vm.SetCollection(reordered)
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex)

	// b1 vanishes: viewer closes, the selected group falls back to the first one
	vm.SetCollection(&gallery.Collection{Name: "ab", Groups: []gallery.Group{
		{ID: "C", Images: []gallery.Image{{ID: "c1"}}},
	}})
	assert.False(t, vm.State().ViewerOpen)
	assert.Equal(t, "C", vm.SelectedGroup())
	assert.Equal(t, 1, vm.Snapshot().Total)

	vm.SetCollection(nil)
	assert.Equal(t, "", vm.SelectedGroup())
	assert.True(t, errors.Is(vm.Open(0), index.ErrInvalidIndex))
}

func TestViewManagerKeepsSelectionAcrossReload(t *testing.T) {
	vm := NewViewManager(abCollection(), DefaultViewOptions())
	require.NoError(t, vm.SelectGroup("B"))
	vm.SetCollection(abCollection())
	assert.Equal(t, "B", vm.SelectedGroup())
}

func TestViewManagerHideGroupInfo(t *testing.T) {
	opts := DefaultViewOptions()
	opts.ShowGroupInfo = false
	vm := NewViewManager(abCollection(), opts)
	require.NoError(t, vm.Open(0))
	snap := vm.Snapshot()
	assert.Empty(t, snap.GroupName)
	assert.Equal(t, "first", snap.Current.Image.Title)
}
