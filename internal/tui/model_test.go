package tui

import (
	"testing"
	"time"

	"fygallery/internal/gallery"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollection() *gallery.Collection {
	return &gallery.Collection{Name: "test", Groups: []gallery.Group{
		{ID: "A", Name: "Alpha", Images: []gallery.Image{{ID: "a1", Title: "Dawn"}, {ID: "a2", Title: "Dusk"}}},
		{ID: "B", Name: "Beta", Images: []gallery.Image{{ID: "b1", Title: "Harbour", Description: "boats"}}},
	}}
}

func newTestModel(t *testing.T) (*Model, *service.ViewManager) {
	t.Helper()
	vm := service.NewViewManager(testCollection(), service.DefaultViewOptions())
	return New(vm, Options{Slideshow: slideshow.NewManager(time.Second, false)}), vm
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, "ArrowRight"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "Escape"},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "Space"},
		{runes("c"), "KeyC"},
		{runes("C"), "Shift+KeyC"},
		{runes("7"), "Key7"},
		{runes(","), "Comma"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, "Alt+KeyX"},
		{runes("é"), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyName(tt.msg), tt.msg.String())
	}
}

func TestBrowseAndOpen(t *testing.T) {
	m, vm := newTestModel(t)
	assert.Contains(t, m.View(), "Alpha (2)")
	assert.Contains(t, m.View(), "Dawn")

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Cursor())
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Cursor(), "cursor stops at the last image")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, vm.State().ViewerOpen)
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex)
	assert.Contains(t, m.View(), "2 / 3")
	assert.Contains(t, m.View(), "Alpha")
}

func TestViewerKeysFollowGroups(t *testing.T) {
	m, vm := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "B", vm.SelectedGroup())
	assert.Contains(t, m.View(), "boats")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, vm.State().ViewerOpen)
	assert.Equal(t, "B", vm.SelectedGroup())
	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.View(), "Harbour")
}

func TestGroupCycling(t *testing.T) {
	m, vm := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "B", vm.SelectedGroup())
	assert.Equal(t, 0, m.Cursor(), "cursor resets on group change")

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "A", vm.SelectedGroup(), "wraps")
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "B", vm.SelectedGroup())
}

func TestCrossGroupToggle(t *testing.T) {
	m, vm := newTestModel(t)
	press(m, runes("c"))
	assert.False(t, vm.State().CrossGroupEnabled)
	assert.Contains(t, m.Status(), "current group")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex, "wraps within Alpha")

	press(m, runes("c"))
	assert.True(t, vm.State().CrossGroupEnabled)
	assert.True(t, vm.State().ViewerOpen)
}

func TestMouseSwipe(t *testing.T) {
	m, vm := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(tea.MouseMsg{X: 40, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 35, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 20, Y: 6, Action: tea.MouseActionRelease})
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex, "left swipe advances")

	m.Update(tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 22, Y: 5, Action: tea.MouseActionRelease})
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex, "short drag is ignored")

	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionRelease})
	assert.Equal(t, 0, vm.State().CurrentGlobalIndex, "right swipe retreats")
}

func TestSlideshowTick(t *testing.T) {
	m, vm := newTestModel(t)
	m.Update(tickMsg(time.Now()))
	assert.False(t, vm.State().ViewerOpen)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tickMsg(time.Now()))
	assert.Equal(t, 0, vm.State().CurrentGlobalIndex, "paused slideshow does not advance")

	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Contains(t, m.Status(), "playing")
	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd, "next tick is scheduled")
	assert.Equal(t, 1, vm.State().CurrentGlobalIndex)
}

func TestQuit(t *testing.T) {
	m, vm := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, runes("q"))
	assert.Nil(t, cmd)
	assert.False(t, vm.State().ViewerOpen, "q closes the viewer first")

	cmd = press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEmptyCollection(t *testing.T) {
	vm := service.NewViewManager(&gallery.Collection{}, service.DefaultViewOptions())
	m := New(vm, Options{})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, vm.State().ViewerOpen)
	assert.Contains(t, m.View(), "No image groups")
	assert.Empty(t, m.Status(), "routine failures stay silent")
}
