package ui

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"fygallery/internal/gallery"
	"fygallery/internal/gesture"
	"fygallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncLoader struct {
	res   fyne.Resource
	loads []string
}

func (l *syncLoader) Load(url string, done func(fyne.Resource, error)) {
	l.loads = append(l.loads, url)
	done(l.res, nil)
}

func pngResource(t *testing.T) fyne.Resource {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return fyne.NewStaticResource("tile.png", buf.Bytes())
}

func img(id string) gallery.Image {
	return gallery.Image{ID: id, URL: "https://example.com/" + id + ".jpg", Title: strings.ToUpper(id)}
}

func abCollection() *gallery.Collection {
	return &gallery.Collection{
		Name: "ab",
		Groups: []gallery.Group{
			{ID: "a", Name: "Group A", Images: []gallery.Image{img("a1"), img("a2"), img("a3")}},
			{ID: "b", Name: "Group B", Images: []gallery.Image{img("b1"), img("b2")}},
		},
	}
}

func newTestApp(t *testing.T, c *gallery.Collection, opts service.ViewOptions) (*App, *syncLoader) {
	t.Helper()
	fa := test.NewApp()
	t.Cleanup(fa.Quit)
	loader := &syncLoader{res: pngResource(t)}
	vm := service.NewViewManager(c, opts)
	a := newApp(fa, vm, Options{Loader: loader, Logger: func(string) {}})
	return a, loader
}

func TestAppInitialBrowse(t *testing.T) {
	a, loader := newTestApp(t, abCollection(), service.DefaultViewOptions())

	assert.False(t, a.UI.viewer.Visible())
	assert.Len(t, a.UI.grid.Objects, 3)
	assert.Equal(t, "Group A (3 images)", a.UI.gridTitle.Text)
	assert.Equal(t, []string{
		"https://example.com/a1.jpg",
		"https://example.com/a2.jpg",
		"https://example.com/a3.jpg",
	}, loader.loads)
	assert.Contains(t, a.UI.statusLabel.Text, "5 images")
}

func TestAppSelectGroupRebuildsGrid(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())

	a.UI.groupList.Select(1)
	assert.Equal(t, "b", a.vm.SelectedGroup())
	assert.Len(t, a.UI.grid.Objects, 2)
	assert.Equal(t, "Group B (2 images)", a.UI.gridTitle.Text)
}

func TestAppNavigatesAcrossGroups(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())

	a.openLocal(2)
	require.True(t, a.UI.viewer.Visible())
	assert.Equal(t, "3 / 5", a.UI.counterLabel.Text)
	assert.Equal(t, "Group A", a.UI.groupLabel.Text)
	assert.Equal(t, "A3", a.UI.titleLabel.Text)

	a.handleKey("ArrowRight")
	assert.Equal(t, "4 / 5", a.UI.counterLabel.Text)
	assert.Equal(t, "Group B", a.UI.groupLabel.Text)
	assert.Equal(t, "b", a.vm.SelectedGroup())

	a.handleKey("Escape")
	assert.False(t, a.UI.viewer.Visible())
	assert.Equal(t, "b", a.vm.SelectedGroup())
	assert.Len(t, a.UI.grid.Objects, 2)
}

func TestAppConfinedWrapsInsideGroup(t *testing.T) {
	opts := service.DefaultViewOptions()
	opts.CrossGroup = false
	a, _ := newTestApp(t, abCollection(), opts)

	a.openLocal(2)
	a.navigate(a.vm.Next)
	assert.Equal(t, "1 / 5", a.UI.counterLabel.Text)
	assert.False(t, a.UI.crossCheck.Checked)
}

func TestAppHidesArrowsForSingleImage(t *testing.T) {
	c := &gallery.Collection{Name: "one", Groups: []gallery.Group{{ID: "g", Images: []gallery.Image{img("x")}}}}
	a, _ := newTestApp(t, c, service.DefaultViewOptions())

	a.openLocal(0)
	assert.False(t, a.UI.prevBtn.Visible())
	assert.False(t, a.UI.nextBtn.Visible())
	assert.Equal(t, "1 / 1", a.UI.counterLabel.Text)
}

func TestAppSwipeNavigates(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())
	a.openLocal(0)

	a.UI.swipe.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(200, 50)}, Dragged: fyne.NewDelta(-10, 0)})
	a.UI.swipe.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 55)}, Dragged: fyne.NewDelta(-100, 5)})
	a.UI.swipe.DragEnd()
	assert.Equal(t, "2 / 5", a.UI.counterLabel.Text)

	// Short drags are taps, not swipes.
	a.UI.swipe.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 50)}, Dragged: fyne.NewDelta(10, 0)})
	a.UI.swipe.DragEnd()
	assert.Equal(t, "2 / 5", a.UI.counterLabel.Text)
}

func TestAppCrossGroupCheck(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())
	a.openLocal(0)
	require.True(t, a.UI.crossCheck.Checked)

	a.UI.crossCheck.SetChecked(false)
	assert.False(t, a.vm.State().CrossGroupEnabled)
	assert.Contains(t, a.UI.statusLabel.Text, "Within group")

	a.handleKey("KeyC")
	assert.True(t, a.vm.State().CrossGroupEnabled)
	assert.True(t, a.UI.crossCheck.Checked)
}

func TestAppClosedKeysAreSilent(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())
	before := len(a.logUIManager.Messages())

	a.handleKey("ArrowRight")
	a.navigate(a.vm.Next)
	assert.Len(t, a.logUIManager.Messages(), before)
	assert.False(t, a.UI.viewer.Visible())
}

func TestAppTogglePlayAndSlideshowStep(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())

	a.handleKey("Space")
	assert.False(t, a.slideshow.IsPaused())
	assert.Contains(t, a.UI.statusLabel.Text, "Playing")

	a.slideshowStep()
	assert.False(t, a.vm.State().ViewerOpen, "slideshow does not open the viewer")

	a.openLocal(4)
	a.slideshowStep()
	assert.Equal(t, "1 / 5", a.UI.counterLabel.Text)
}

func TestAppApplyReloadFollowsImage(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())
	a.openLocal(1)

	reordered := &gallery.Collection{
		Name: "ab",
		Groups: []gallery.Group{
			{ID: "b", Name: "Group B", Images: []gallery.Image{img("b1"), img("b2")}},
			{ID: "a", Name: "Group A", Images: []gallery.Image{img("a1"), img("a2"), img("a3")}},
		},
	}
	a.applyReload(reordered)
	assert.Equal(t, "4 / 5", a.UI.counterLabel.Text)
	assert.Equal(t, "A2", a.UI.titleLabel.Text)

	msgs := a.logUIManager.Messages()
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1], "Reloaded ab")
}

func TestAppHistoryKeys(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())
	a.openLocal(0)
	a.handleKey("End")
	assert.Equal(t, "5 / 5", a.UI.counterLabel.Text)

	a.handleKey("Backspace")
	assert.Equal(t, "1 / 5", a.UI.counterLabel.Text)
	a.handleKey("Shift+Backspace")
	assert.Equal(t, "5 / 5", a.UI.counterLabel.Text)
}

func TestShortcutRows(t *testing.T) {
	km, err := gesture.NewKeyMap(map[string][]string{"next": {"ArrowRight", "KeyL"}})
	require.NoError(t, err)

	rows := shortcutRows(km)
	require.NotEmpty(t, rows)
	assert.Equal(t, shortcutRow{description: "Next Image", keys: "ArrowRight, KeyL"}, rows[0])
	assert.Equal(t, "Quit Application", rows[len(rows)-1].description)
}

func TestAboutSummarisesCollection(t *testing.T) {
	a, _ := newTestApp(t, abCollection(), service.DefaultViewOptions())

	about := NewAbout(a.UI.MainWin, pngResource(t), a.vm.Collection())
	about.Show()
	defer about.Hide()

	box := about.body.(*fyne.Container)
	form := box.Objects[len(box.Objects)-1].(*widget.Form)
	require.Len(t, form.Items, 3)
	assert.Equal(t, "ab", form.Items[0].Widget.(*widget.Label).Text)
	assert.Equal(t, "5", form.Items[2].Widget.(*widget.Label).Text)
}
