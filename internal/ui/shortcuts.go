// Package ui  Shortcuts for keyboard actions
package ui

import (
	"sort"
	"strings"

	"fygallery/internal/gesture"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// fyneKeys maps fyne key names onto the names used in key bindings.
var fyneKeys = map[fyne.KeyName]string{
	fyne.KeyRight:     "ArrowRight",
	fyne.KeyLeft:      "ArrowLeft",
	fyne.KeyUp:        "ArrowUp",
	fyne.KeyDown:      "ArrowDown",
	fyne.KeyEscape:    "Escape",
	fyne.KeySpace:     "Space",
	fyne.KeyBackspace: "Backspace",
	fyne.KeyReturn:    "Enter",
	fyne.KeyEnter:     "Enter",
	fyne.KeyTab:       "Tab",
	fyne.KeyHome:      "Home",
	fyne.KeyEnd:       "End",
	fyne.KeyPageUp:    "PageUp",
	fyne.KeyPageDown:  "PageDown",
	fyne.KeyComma:     "Comma",
	fyne.KeyPeriod:    "Period",
	fyne.KeySlash:     "Slash",
	fyne.KeyMinus:     "Minus",
	fyne.KeyEqual:     "Equal",
}

var modifierKeys = map[string]fyne.KeyModifier{
	"Ctrl":  fyne.KeyModifierControl,
	"Alt":   fyne.KeyModifierAlt,
	"Shift": fyne.KeyModifierShift,
}

// keyName converts a fyne key to a binding name. Unknown keys yield "".
func keyName(k fyne.KeyName) string {
	if name, ok := fyneKeys[k]; ok {
		return name
	}
	if len(k) == 1 {
		c := k[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return "Key" + string(k)
		}
	}
	return ""
}

// fyneKey is the reverse of keyName for a binding such as "Shift+Backspace".
func fyneKey(binding string) (fyne.KeyName, fyne.KeyModifier, bool) {
	parts := strings.Split(binding, "+")
	var mod fyne.KeyModifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierKeys[p]
		if !ok {
			return "", 0, false
		}
		mod |= m
	}
	base := parts[len(parts)-1]
	for k, name := range fyneKeys {
		if name == base && k != fyne.KeyEnter {
			return k, mod, true
		}
	}
	if strings.HasPrefix(base, "Key") && len(base) == 4 {
		return fyne.KeyName(base[3:]), mod, true
	}
	return "", 0, false
}

func (a *App) buildKeyboardShortcuts() {
	c := a.UI.MainWin.Canvas()

	c.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.app.Quit() })

	// Plain keys arrive through OnTypedKey; modified bindings need shortcuts.
	for _, action := range gesture.Actions {
		for _, binding := range a.keys.KeysFor(action) {
			if !strings.Contains(binding, "+") {
				continue
			}
			k, mod, ok := fyneKey(binding)
			if !ok {
				continue
			}
			binding := binding
			c.AddShortcut(&desktop.CustomShortcut{KeyName: k, Modifier: mod}, func(_ fyne.Shortcut) {
				a.handleKey(binding)
			})
		}
	}

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		name := keyName(ev.Name)
		if name == "" {
			return
		}
		if !a.vm.State().ViewerOpen {
			a.handleBrowseKey(name)
			return
		}
		a.handleKey(name)
	})
}

// handleBrowseKey covers the keys that mean something while the grid is shown.
func (a *App) handleBrowseKey(name string) {
	switch a.keys.Lookup(name) {
	case gesture.ActionTogglePlay:
		a.togglePlay()
	case gesture.ActionToggleCrossGroup:
		a.setCrossGroup(!a.vm.State().CrossGroupEnabled)
	case gesture.ActionClose:
		if len(a.UI.MainWin.Canvas().Overlays().List()) > 0 {
			a.UI.MainWin.Canvas().Overlays().Top().Hide()
		}
	}
}

type shortcutRow struct {
	description string
	keys        string
}

var actionDescriptions = map[gesture.Action]string{
	gesture.ActionNext:             "Next Image",
	gesture.ActionPrev:             "Previous Image",
	gesture.ActionClose:            "Close Viewer",
	gesture.ActionToggleCrossGroup: "Toggle Cross-Group Navigation",
	gesture.ActionBack:             "Back in History",
	gesture.ActionForward:          "Forward in History",
	gesture.ActionTogglePlay:       "Play / Pause Slideshow",
	gesture.ActionFirst:            "First Image",
	gesture.ActionLast:             "Last Image",
}

func shortcutRows(km *gesture.KeyMap) []shortcutRow {
	rows := make([]shortcutRow, 0, len(gesture.Actions)+1)
	for _, action := range gesture.Actions {
		keys := km.KeysFor(action)
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys)
		rows = append(rows, shortcutRow{description: actionDescriptions[action], keys: strings.Join(keys, ", ")})
	}
	return append(rows, shortcutRow{description: "Quit Application", keys: "Ctrl+Q (Cmd+Q on macOS)"})
}

func (a *App) showShortcuts() {
	rows := shortcutRows(a.keys)

	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(rows) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			isHeader := id.Row == 0
			switch {
			case isHeader && id.Col == 0:
				label.SetText("Description")
			case isHeader:
				label.SetText("Shortcut")
			case id.Col == 0:
				label.SetText(rows[id.Row-1].description)
			default:
				label.SetText(rows[id.Row-1].keys)
			}
			label.TextStyle.Bold = isHeader
		},
	)
	table.SetColumnWidth(0, 260)
	table.SetColumnWidth(1, 220)
	win.SetContent(table)
	win.Resize(fyne.NewSize(500, 400))
	win.Show()
}
