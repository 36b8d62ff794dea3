// Package ui is the fyne presentation shell: a group picker, a thumbnail grid
// and a viewer overlay with swipe, keyboard and slideshow navigation.
package ui

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"fygallery/internal/gallery"
	"fygallery/internal/gesture"
	"fygallery/internal/index"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// AppID identifies the application to fyne preferences.
const AppID = "io.github.fygallery"

var tileSize = fyne.NewSize(160, 120)

// Options configures the GUI.
type Options struct {
	Source         string // what the collection was loaded from; used for sessions and reloads
	Service        *service.Service
	Slideshow      *slideshow.Manager
	KeyMap         *gesture.KeyMap
	SwipeThreshold float64
	Logger         func(string)
	Loader         ImageLoader // nil: load files and URLs in the background
}

// UI holds the widgets the App updates.
type UI struct {
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	groupList *widget.List
	gridTitle *widget.Label
	grid      *fyne.Container

	viewer       *fyne.Container
	viewerImage  *canvas.Image
	swipe        *swipeArea
	prevBtn      *widget.Button
	nextBtn      *widget.Button
	counterLabel *widget.Label
	groupLabel   *widget.Label
	titleLabel   *widget.Label
	descLabel    *widget.Label
	crossCheck   *widget.Check
	infoText     *widget.RichText
	infoPanel    fyne.CanvasObject

	toolBar          *widget.Toolbar
	pauseAction      *widget.ToolbarAction
	statusLabel      *widget.Label
	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button
}

// App represents the whole application with all its windows, widgets and functions
type App struct {
	app fyne.App
	UI  UI

	vm        *service.ViewManager
	svc       *service.Service
	source    string
	keys      *gesture.KeyMap
	slideshow *slideshow.Manager
	loader    ImageLoader
	threshold float64

	logUIManager *LogUIManager
	logger       func(string)

	gridGroup      string
	gridCollection *gallery.Collection
	shownURL       string
	syncingList    bool

	cancel      context.CancelFunc
	watchCancel context.CancelFunc
}

// CreateApplication is the GUI entrypoint. It blocks until the window closes
// and saves the session on the way out.
func CreateApplication(vm *service.ViewManager, opts Options) error {
	fa := app.NewWithID(AppID)
	fa.Settings().SetTheme(NewGalleryTheme(fa.Settings().Theme()))

	a := newApp(fa, vm, opts)
	a.start()
	a.UI.MainWin.Resize(fyne.NewSize(1100, 750))
	a.UI.MainWin.CenterOnScreen()
	a.UI.MainWin.ShowAndRun()
	return a.shutdown()
}

func newApp(fa fyne.App, vm *service.ViewManager, opts Options) *App {
	a := &App{
		app:       fa,
		vm:        vm,
		svc:       opts.Service,
		source:    opts.Source,
		keys:      opts.KeyMap,
		slideshow: opts.Slideshow,
		loader:    opts.Loader,
		threshold: opts.SwipeThreshold,
		logger:    opts.Logger,
	}
	if a.svc == nil {
		a.svc = service.NewService(nil, opts.Logger)
	}
	if a.keys == nil {
		a.keys = gesture.DefaultKeyMap()
	}
	if a.slideshow == nil {
		a.slideshow = slideshow.NewManager(slideshow.DefaultInterval, false)
	}
	if a.loader == nil {
		a.loader = newCachingLoader()
	}
	if a.threshold <= 0 {
		a.threshold = gesture.DefaultThreshold
	}

	a.UI.MainWin = fa.NewWindow("FyGallery")
	a.UI.MainWin.SetContent(a.buildMainUI())
	a.refresh()
	return a
}

func (a *App) start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.slideshow.Run(ctx, func() {
		fyne.Do(a.slideshowStep)
	})
	a.watch()
	a.addLogMessage(fmt.Sprintf("Showing %s: %d images", a.collectionName(), a.vm.Mapping().TotalCount()))
}

func (a *App) shutdown() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.watchCancel != nil {
		a.watchCancel()
	}
	return a.svc.SaveSession(a.vm, a.source)
}

// addLogMessage adds a message to the UI log display.
func (a *App) addLogMessage(message string) {
	if a.logUIManager != nil {
		a.logUIManager.AddLogMessage(message)
	} else if a.logger != nil {
		a.logger(message)
	}
}

// report surfaces unexpected errors; routine navigation refusals stay silent.
func (a *App) report(err error) {
	if err == nil || service.IsRoutine(err) {
		return
	}
	a.addLogMessage("Error: " + err.Error())
}

func (a *App) collectionName() string {
	if c := a.vm.Collection(); c != nil && c.Name != "" {
		return c.Name
	}
	return "gallery"
}

func (a *App) groups() []gallery.Group {
	if c := a.vm.Collection(); c != nil {
		return c.Groups
	}
	return nil
}

func (a *App) buildMainUI() fyne.CanvasObject {
	a.UI.MainWin.SetMaster()
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}

	toolbar := a.buildToolbar()
	status := a.buildStatusBar()

	a.UI.groupList = widget.NewList(
		func() int { return len(a.groups()) },
		func() fyne.CanvasObject { return widget.NewLabel("Group name (000)") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			groups := a.groups()
			if id >= len(groups) {
				return
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s (%d)", groups[id].DisplayName(), groups[id].Len()))
		},
	)
	a.UI.groupList.OnSelected = func(id widget.ListItemID) {
		if a.syncingList {
			return
		}
		groups := a.groups()
		if id >= len(groups) {
			return
		}
		a.selectGroup(groups[id].ID)
	}

	a.UI.gridTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.UI.grid = container.NewGridWrap(tileSize)
	browse := container.NewHSplit(
		a.UI.groupList,
		container.NewBorder(a.UI.gridTitle, nil, nil, nil, container.NewVScroll(a.UI.grid)),
	)
	browse.SetOffset(0.22)

	a.UI.viewer = a.buildViewer()
	a.UI.viewer.Hide()

	a.UI.MainWin.SetMainMenu(a.buildMainMenu())
	a.buildKeyboardShortcuts()

	return container.NewBorder(
		toolbar, // Top
		status,  // Bottom
		nil,
		nil,
		container.NewStack(browse, a.UI.viewer),
	)
}

func (a *App) buildViewer() *fyne.Container {
	settings := a.app.Settings()
	backdrop := canvas.NewRectangle(settings.Theme().Color(colorNameViewerBackdrop, settings.ThemeVariant()))

	a.UI.viewerImage = &canvas.Image{FillMode: canvas.ImageFillContain}
	a.UI.swipe = newSwipeArea(a.threshold, a.handleSwipe)

	a.UI.prevBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { a.navigate(a.vm.Prev) })
	a.UI.nextBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { a.navigate(a.vm.Next) })
	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), a.closeViewer)

	a.UI.counterLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.UI.groupLabel = widget.NewLabel("")
	a.UI.titleLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.UI.descLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	a.UI.descLabel.Wrapping = fyne.TextWrapWord

	a.UI.crossCheck = widget.NewCheck("Cross-group navigation", func(on bool) {
		if on != a.vm.State().CrossGroupEnabled {
			a.setCrossGroup(on)
		}
	})

	a.UI.infoText = widget.NewRichTextFromMarkdown("## Info")
	a.UI.infoText.Wrapping = fyne.TextWrapWord
	info := container.NewVScroll(a.UI.infoText)
	info.SetMinSize(fyne.NewSize(260, 0))
	a.UI.infoPanel = info
	a.UI.infoPanel.Hide()
	infoBtn := widget.NewButtonWithIcon("", theme.InfoIcon(), func() {
		if a.UI.infoPanel.Visible() {
			a.UI.infoPanel.Hide()
		} else {
			a.UI.infoPanel.Show()
		}
	})

	top := container.NewBorder(nil, nil, a.UI.groupLabel, closeBtn, a.UI.counterLabel)
	bottom := container.NewVBox(
		a.UI.titleLabel,
		a.UI.descLabel,
		container.NewHBox(a.UI.crossCheck, layout.NewSpacer(), infoBtn),
	)
	middle := container.NewBorder(nil, nil,
		container.NewCenter(a.UI.prevBtn),
		container.NewCenter(a.UI.nextBtn),
		container.NewStack(a.UI.viewerImage, a.UI.swipe),
	)
	return container.NewStack(backdrop, container.NewBorder(top, bottom, nil, a.UI.infoPanel, middle))
}

func (a *App) buildToolbar() *widget.Toolbar {
	a.UI.pauseAction = widget.NewToolbarAction(theme.MediaPlayIcon(), a.togglePlay)
	if !a.slideshow.IsPaused() {
		a.UI.pauseAction.SetIcon(theme.MediaPauseIcon())
	}
	a.UI.toolBar = widget.NewToolbar(
		widget.NewToolbarAction(theme.FileIcon(), a.showOpenCollection),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.showOpenFolder),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaSkipPreviousIcon(), func() { a.navigate(a.vm.First) }),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { a.navigate(a.vm.Prev) }),
		a.UI.pauseAction,
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { a.navigate(a.vm.Next) }),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() { a.navigate(a.vm.Last) }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), a.showShortcuts),
	)
	return a.UI.toolBar
}

func (a *App) buildStatusBar() *fyne.Container {
	a.UI.statusLabel = widget.NewLabel("Ready")
	a.UI.statusLogLabel = widget.NewLabel("")
	a.UI.statusLogLabel.Truncation = fyne.TextTruncateEllipsis
	a.UI.statusLogUpBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		a.logUIManager.ShowPreviousLogMessage()
	})
	a.UI.statusLogDownBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		a.logUIManager.ShowNextLogMessage()
	})
	a.logUIManager = NewLogUIManager(a.UI.statusLogLabel, a.UI.statusLogUpBtn, a.UI.statusLogDownBtn, DefaultMaxLogMessages, a.logger)
	a.logUIManager.UpdateLogDisplay()

	return container.NewBorder(nil, nil,
		a.UI.statusLabel,
		container.NewHBox(a.UI.statusLogUpBtn, a.UI.statusLogDownBtn),
		a.UI.statusLogLabel,
	)
}

func (a *App) buildMainMenu() *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open Collection...", a.showOpenCollection),
			fyne.NewMenuItem("Open Folder...", a.showOpenFolder),
			fyne.NewMenuItem("Load Sample", func() { a.loadSource(service.SampleSource) }),
		),
		fyne.NewMenu("View",
			fyne.NewMenuItem("Toggle Cross-Group Navigation", func() {
				a.setCrossGroup(!a.vm.State().CrossGroupEnabled)
			}),
			fyne.NewMenuItem("Play / Pause Slideshow", a.togglePlay),
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", func() {
				NewAbout(a.UI.MainWin, theme.FileImageIcon(), a.vm.Collection()).Show()
			}),
		),
	)
}

// refresh redraws every widget from the current snapshot.
func (a *App) refresh() {
	snap := a.vm.Snapshot()
	a.UI.MainWin.SetTitle("FyGallery - " + a.collectionName())
	a.refreshBrowse(snap)
	a.refreshViewer(snap)
	a.updateStatusBar(snap)
}

func (a *App) refreshBrowse(snap service.Snapshot) {
	a.UI.groupList.Refresh()
	for i, g := range snap.Groups {
		if g.Selected {
			a.syncingList = true
			a.UI.groupList.Select(i)
			a.syncingList = false
			break
		}
	}

	if snap.SelectedGroupName == "" {
		a.UI.gridTitle.SetText("No image groups")
	} else {
		a.UI.gridTitle.SetText(fmt.Sprintf("%s (%d images)", snap.SelectedGroupName, len(snap.SelectedImages)))
	}

	if a.gridGroup == snap.SelectedGroupID && a.gridCollection == a.vm.Collection() {
		return
	}
	a.gridGroup = snap.SelectedGroupID
	a.gridCollection = a.vm.Collection()

	tiles := make([]fyne.CanvasObject, 0, len(snap.SelectedImages))
	for i, img := range snap.SelectedImages {
		local := i
		tile := newTappableImage(func() { a.openLocal(local) })
		tile.SetMinSize(tileSize)
		tile.SetURL(a.loader, img.URL, func(err error) {
			a.addLogMessage(fmt.Sprintf("Thumbnail %s: %v", img.ID, err))
		})
		caption := widget.NewLabelWithStyle(imageLabel(img), fyne.TextAlignCenter, fyne.TextStyle{})
		caption.Truncation = fyne.TextTruncateEllipsis
		tiles = append(tiles, container.NewBorder(nil, caption, nil, nil, tile))
	}
	a.UI.grid.Objects = tiles
	a.UI.grid.Refresh()
}

func (a *App) refreshViewer(snap service.Snapshot) {
	if !snap.ViewerOpen {
		a.shownURL = ""
		a.UI.viewer.Hide()
		return
	}
	a.UI.viewer.Show()

	img := snap.Current.Image
	if a.shownURL != img.URL {
		a.shownURL = img.URL
		a.UI.viewerImage.Resource = nil
		a.UI.viewerImage.Refresh()
		url := img.URL
		a.loader.Load(url, func(res fyne.Resource, err error) {
			if a.shownURL != url {
				return
			}
			if err != nil {
				a.addLogMessage(fmt.Sprintf("Failed to load %s: %v", url, err))
				return
			}
			a.UI.viewerImage.Resource = res
			a.UI.viewerImage.Refresh()
		})
		a.updateInfoText(snap.Current)
	}

	a.UI.counterLabel.SetText(snap.Counter)
	if snap.GroupName != "" {
		a.UI.groupLabel.SetText(snap.GroupName)
		a.UI.groupLabel.Show()
	} else {
		a.UI.groupLabel.Hide()
	}
	a.UI.titleLabel.SetText(imageLabel(img))
	a.UI.descLabel.SetText(img.Description)
	setVisible(a.UI.prevBtn, snap.HasPrev)
	setVisible(a.UI.nextBtn, snap.HasNext)
	a.UI.crossCheck.SetChecked(snap.CrossGroup)
}

func (a *App) updateInfoText(e index.Entry) {
	img := e.Image
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", imageLabel(img))
	if img.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", img.Description)
	}
	fmt.Fprintf(&b, "**Group:** %s\n\n**Position in group:** %d\n\n**URL:** %s\n\n", e.GroupID, e.LocalIndex+1, img.URL)

	info, err := a.svc.Images.InfoFor(img)
	if err == nil {
		fmt.Fprintf(&b, "---\n## File\n\n**Format:** %s\n\n**Size:** %d bytes\n\n**Width:** %d px\n\n**Height:** %d px\n\n**Last modified:** %s\n\n",
			info.Format, info.Size, info.Width, info.Height, info.ModTime.Format("2006-01-02 15:04:05"))
		if len(info.EXIFData) > 0 {
			b.WriteString("---\n## EXIF Data\n\n")
			for _, k := range sortedKeys(info.EXIFData) {
				fmt.Fprintf(&b, "- **%s**: %s\n", k, info.EXIFData[k])
			}
		}
	} else if !errors.Is(err, service.ErrNotLocal) {
		a.addLogMessage(fmt.Sprintf("Image info for %s: %v", img.ID, err))
	}
	a.UI.infoText.ParseMarkdown(b.String())
}

// updateStatusBar updates the text of the status bar.
func (a *App) updateStatusBar(snap service.Snapshot) {
	parts := []string{fmt.Sprintf("%d images", snap.Total)}
	if snap.ViewerOpen {
		parts = append(parts, "Image "+snap.Counter)
	}
	if snap.CrossGroup {
		parts = append(parts, "Cross-group")
	} else {
		parts = append(parts, "Within group")
	}
	if a.slideshow.IsPaused() {
		parts = append(parts, "Paused")
	} else {
		parts = append(parts, "Playing")
	}
	a.UI.statusLabel.SetText(strings.Join(parts, "  |  "))
}

func (a *App) selectGroup(groupID string) {
	a.report(a.vm.SelectGroup(groupID))
	a.refresh()
}

func (a *App) openLocal(local int) {
	a.report(a.vm.OpenLocal(local))
	a.refresh()
}

func (a *App) closeViewer() {
	a.vm.Close()
	a.refresh()
}

// navigate runs a viewer move and redraws.
func (a *App) navigate(op func() (index.Entry, error)) {
	_, err := op()
	a.report(err)
	a.scheduleTransitionEnd()
	a.refresh()
}

func (a *App) handleKey(name string) {
	action, err := a.vm.HandleKey(name)
	a.report(err)
	if action == gesture.ActionTogglePlay {
		a.togglePlay()
		return
	}
	if action == gesture.ActionNone {
		return
	}
	a.scheduleTransitionEnd()
	a.refresh()
}

func (a *App) handleSwipe(d gesture.Direction) {
	a.navigate(func() (index.Entry, error) { return a.vm.HandleSwipe(d) })
}

func (a *App) slideshowStep() {
	if !a.vm.State().ViewerOpen {
		return
	}
	a.navigate(a.vm.Next)
}

// scheduleTransitionEnd releases navigation once a timed transition has run.
func (a *App) scheduleTransitionEnd() {
	tr := a.vm.Transitions()
	if !tr.InProgress() || tr.Duration() == 0 {
		return
	}
	time.AfterFunc(tr.Duration(), func() {
		fyne.Do(func() {
			a.vm.EndTransition()
			a.refresh()
		})
	})
}

// Handle toggles
func (a *App) togglePlay() {
	if a.slideshow.TogglePlayPause() {
		a.UI.pauseAction.SetIcon(theme.MediaPauseIcon())
		a.addLogMessage(fmt.Sprintf("Slideshow playing every %s", a.slideshow.Interval()))
	} else {
		a.UI.pauseAction.SetIcon(theme.MediaPlayIcon())
		a.addLogMessage("Slideshow paused")
	}
	a.UI.toolBar.Refresh()
	a.updateStatusBar(a.vm.Snapshot())
}

func (a *App) setCrossGroup(on bool) {
	a.vm.SetCrossGroup(on)
	if on {
		a.addLogMessage("Cross-group navigation on")
	} else {
		a.addLogMessage("Navigation confined to the current group")
	}
	a.refresh()
}

func (a *App) showOpenCollection() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.UI.MainWin)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		a.loadSource(path)
	}, a.UI.MainWin)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json", ".yaml", ".yml"}))
	d.Show()
}

func (a *App) showOpenFolder() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, a.UI.MainWin)
			return
		}
		if dir == nil {
			return
		}
		a.loadSource(dir.Path())
	}, a.UI.MainWin)
}

// loadSource replaces the collection, saving the old session and restoring the new one.
func (a *App) loadSource(source string) {
	c, err := a.svc.LoadCollection(source)
	if err != nil {
		a.addLogMessage("Error: " + err.Error())
		dialog.ShowError(err, a.UI.MainWin)
		return
	}
	if err := a.svc.SaveSession(a.vm, a.source); err != nil {
		a.addLogMessage("Session not saved: " + err.Error())
	}
	a.source = source
	a.vm.SetCollection(c)
	if _, err := a.svc.RestoreSession(a.vm); err != nil {
		a.report(err)
	}
	a.watch()
	a.refresh()
}

// watch follows the current source when it is a collection file.
func (a *App) watch() {
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
	}
	if a.source == "" {
		return
	}
	w, err := a.svc.WatchCollection(a.source)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel
	go func() { _ = w.Run(ctx) }()
	go func() {
		for c := range w.Updates() {
			fyne.Do(func() { a.applyReload(c) })
		}
	}()
}

func (a *App) applyReload(c *gallery.Collection) {
	a.vm.SetCollection(c)
	a.addLogMessage(fmt.Sprintf("Reloaded %s: %d images", a.collectionName(), a.vm.Mapping().TotalCount()))
	a.refresh()
}

func imageLabel(img gallery.Image) string {
	if img.Title != "" {
		return img.Title
	}
	return img.ID
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
