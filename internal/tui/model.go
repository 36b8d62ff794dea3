// Package tui is the terminal presentation shell: a group picker, a grid of
// image titles and a full-screen viewer driven by keys, mouse drags and an
// optional slideshow.
package tui

import (
	"fmt"
	"strings"
	"time"

	"fygallery/internal/gesture"
	"fygallery/internal/index"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Terminal cells are converted to approximate pixels so the swipe threshold
// means the same thing as in the GUI.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

type tickMsg time.Time

type transitionDoneMsg struct{}

// Options configures the terminal shell.
type Options struct {
	SwipeThreshold float64
	Slideshow      *slideshow.Manager
	Logger         func(string)
}

// Model is the bubbletea model.
type Model struct {
	vm        *service.ViewManager
	slideshow *slideshow.Manager
	detector  *gesture.Detector
	keys      KeyMap
	help      help.Model
	logger    func(string)

	cursor  int // local index in the selected group
	status  string
	isError bool
	width   int
	height  int
}

// New builds a model around vm.
func New(vm *service.ViewManager, opts Options) *Model {
	show := opts.Slideshow
	if show == nil {
		show = slideshow.NewManager(slideshow.DefaultInterval, false)
	}
	return &Model{
		vm:        vm,
		slideshow: show,
		detector:  gesture.NewDetector(opts.SwipeThreshold),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		logger:    opts.Logger,
	}
}

// Run starts the program and blocks until the user quits.
func Run(vm *service.ViewManager, opts Options) error {
	p := tea.NewProgram(New(vm, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Cursor returns the grid cursor.
func (m *Model) Cursor() int {
	return m.cursor
}

// Status returns the current status line text.
func (m *Model) Status() string {
	return m.status
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.slideshow.Interval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) log(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger(fmt.Sprintf(format, args...))
	}
}

func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.isError = false
}

// report shows unexpected errors; routine navigation outcomes stay silent.
func (m *Model) report(err error) {
	if err == nil || service.IsRoutine(err) {
		return
	}
	m.status = err.Error()
	m.isError = true
	m.log("tui: %v", err)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.vm.State().ViewerOpen && !m.slideshow.IsPaused() {
			_, err := m.vm.Next()
			m.report(err)
			return m, tea.Batch(m.tick(), m.afterMove())
		}
		return m, m.tick()

	case transitionDoneMsg:
		m.vm.EndTransition()
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (msg.String() == "ctrl+c" || !m.vm.State().ViewerOpen) {
			return m, tea.Quit
		}
		if m.vm.State().ViewerOpen {
			return m, m.handleViewerKey(msg)
		}
		return m, m.handleBrowseKey(msg)
	}
	return m, nil
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextGroup):
		m.cycleGroup(1)
	case key.Matches(msg, m.keys.PrevGroup):
		m.cycleGroup(-1)
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(m.vm.Snapshot().SelectedImages)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if err := m.vm.OpenLocal(m.cursor); err != nil {
			m.report(err)
			return nil
		}
		m.setStatus("")
	case key.Matches(msg, m.keys.CrossGroup):
		m.toggleCrossGroup()
	case key.Matches(msg, m.keys.Play):
		m.togglePlay()
	}
	return nil
}

func (m *Model) handleViewerKey(msg tea.KeyMsg) tea.Cmd {
	last, _ := m.vm.Current()
	action, err := m.vm.HandleKey(keyName(msg))
	m.report(err)
	switch action {
	case gesture.ActionClose:
		m.syncCursor(last)
	case gesture.ActionTogglePlay:
		m.togglePlay()
	case gesture.ActionToggleCrossGroup:
		m.describeCrossGroup()
	case gesture.ActionNone:
		if key.Matches(msg, m.keys.Quit) {
			m.vm.Close()
			m.syncCursor(last)
		}
		return nil
	}
	return m.afterMove()
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.vm.State().ViewerOpen {
		return nil
	}
	p := gesture.Point{X: float64(msg.X * cellWidthPx), Y: float64(msg.Y * cellHeightPx)}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.detector.Begin(p)
	case msg.Action == tea.MouseActionMotion:
		if m.detector.Active() {
			m.detector.Move(p)
		}
	case msg.Action == tea.MouseActionRelease:
		dir := m.detector.End(p)
		if dir == gesture.None {
			return nil
		}
		_, err := m.vm.HandleSwipe(dir)
		m.report(err)
		return m.afterMove()
	}
	return nil
}

// afterMove schedules the end of a timed transition.
func (m *Model) afterMove() tea.Cmd {
	tr := m.vm.Transitions()
	if !tr.InProgress() || tr.Duration() == 0 {
		return nil
	}
	return tea.Tick(tr.Duration(), func(time.Time) tea.Msg { return transitionDoneMsg{} })
}

func (m *Model) cycleGroup(delta int) {
	groups := m.vm.Snapshot().Groups
	if len(groups) == 0 {
		return
	}
	cur := 0
	for i, g := range groups {
		if g.Selected {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(groups) + len(groups)) % len(groups)
	if err := m.vm.SelectGroup(groups[next].ID); err != nil {
		m.report(err)
		return
	}
	m.cursor = 0
}

// syncCursor points the grid at the image the viewer showed last.
func (m *Model) syncCursor(last index.Entry) {
	if last.GroupID != "" && last.GroupID == m.vm.SelectedGroup() {
		m.cursor = last.LocalIndex
		return
	}
	if m.cursor >= len(m.vm.Snapshot().SelectedImages) {
		m.cursor = 0
	}
}

func (m *Model) toggleCrossGroup() {
	m.vm.ToggleCrossGroup()
	m.describeCrossGroup()
}

func (m *Model) describeCrossGroup() {
	if m.vm.State().CrossGroupEnabled {
		m.setStatus("navigation crosses groups")
	} else {
		m.setStatus("navigation stays in the current group")
	}
}

func (m *Model) togglePlay() {
	if m.slideshow.TogglePlayPause() {
		m.setStatus("slideshow playing every %s", m.slideshow.Interval())
	} else {
		m.setStatus("slideshow paused")
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.vm.Snapshot()
	if snap.ViewerOpen {
		return m.viewerView(snap)
	}
	return m.browseView(snap)
}

func (m *Model) browseView(snap service.Snapshot) string {
	var b strings.Builder
	name := m.vm.Collection().Name
	if name == "" {
		name = "gallery"
	}
	b.WriteString(TitleStyle.Render(name))
	b.WriteString("\n\n")

	if len(snap.Groups) == 0 {
		b.WriteString(StatusStyle.Render("No image groups"))
		b.WriteString("\n")
	} else {
		tabs := make([]string, 0, len(snap.Groups))
		for _, g := range snap.Groups {
			label := fmt.Sprintf("%s (%d)", g.Name, g.Count)
			if g.Selected {
				tabs = append(tabs, SelectedGroupStyle.Render(label))
			} else {
				tabs = append(tabs, GroupStyle.Render(label))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		b.WriteString("\n\n")
	}

	for i, img := range snap.SelectedImages {
		label := img.Title
		if label == "" {
			label = img.ID
		}
		line := fmt.Sprintf("%3d  %s", i+1, label)
		if i == m.cursor {
			line = CursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if snap.SelectedGroupID != "" && len(snap.SelectedImages) == 0 {
		b.WriteString(StatusStyle.Render("This group has no images"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) viewerView(snap service.Snapshot) string {
	img := snap.Current.Image
	var body strings.Builder
	body.WriteString(CounterStyle.Render(snap.Counter))
	if snap.GroupName != "" {
		body.WriteString("  ")
		body.WriteString(StatusStyle.Render(snap.GroupName))
	}
	body.WriteString("\n\n")
	title := img.Title
	if title == "" {
		title = img.ID
	}
	body.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	body.WriteString("\n")
	if img.Description != "" {
		body.WriteString(img.Description)
		body.WriteString("\n")
	}
	body.WriteString(StatusStyle.Render(img.URL))
	body.WriteString("\n\n")

	prev, next := "   ", "   "
	if snap.HasPrev {
		prev = "‹ ←"
	}
	if snap.HasNext {
		next = "→ ›"
	}
	body.WriteString(prev + strings.Repeat(" ", 6) + next)

	frame := ViewerStyle
	if m.width > 4 {
		frame = frame.Width(m.width - 4)
	}

	var b strings.Builder
	b.WriteString(frame.Render(body.String()))
	b.WriteString("\n")
	mode := "cross-group"
	if !snap.CrossGroup {
		mode = "group only"
	}
	play := "paused"
	if !m.slideshow.IsPaused() {
		play = "playing"
	}
	b.WriteString(StatusStyle.Render(fmt.Sprintf("%s · slideshow %s · esc close", mode, play)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.isError {
		return ErrorStyle.Render(m.status)
	}
	return StatusStyle.Render(m.status)
}
