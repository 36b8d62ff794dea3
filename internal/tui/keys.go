package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the browse-mode bindings. Viewer keys come from the
// configured gesture.KeyMap instead.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	NextGroup  key.Binding
	PrevGroup  key.Binding
	Left       key.Binding
	Right      key.Binding
	Open       key.Binding
	CrossGroup key.Binding
	Play       key.Binding
}

// DefaultKeyMap returns the browse-mode bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextGroup:  key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab/↓", "next group")),
		PrevGroup:  key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab/↑", "prev group")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev image")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next image")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open viewer")),
		CrossGroup: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle cross-group")),
		Play:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "slideshow")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.NextGroup, k.Right, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextGroup, k.PrevGroup, k.Left, k.Right},
		{k.Open, k.CrossGroup, k.Play},
		{k.Help, k.Quit},
	}
}

var specialKeys = map[tea.KeyType]string{
	tea.KeyLeft:       "ArrowLeft",
	tea.KeyRight:      "ArrowRight",
	tea.KeyUp:         "ArrowUp",
	tea.KeyDown:       "ArrowDown",
	tea.KeyEsc:        "Escape",
	tea.KeyEnter:      "Enter",
	tea.KeySpace:      "Space",
	tea.KeyBackspace:  "Backspace",
	tea.KeyTab:        "Tab",
	tea.KeyShiftTab:   "Shift+Tab",
	tea.KeyHome:       "Home",
	tea.KeyEnd:        "End",
	tea.KeyPgUp:       "PageUp",
	tea.KeyPgDown:     "PageDown",
	tea.KeyShiftLeft:  "Shift+ArrowLeft",
	tea.KeyShiftRight: "Shift+ArrowRight",
}

var runeKeys = map[rune]string{
	',': "Comma", '.': "Period", '/': "Slash", '-': "Minus", '=': "Equal", ' ': "Space",
}

// keyName converts a terminal key event to the names used in key bindings
// ("ArrowRight", "KeyC", "Shift+KeyC"). Unknown keys yield "".
func keyName(msg tea.KeyMsg) string {
	name, ok := specialKeys[msg.Type]
	if !ok && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		switch {
		case r >= 'a' && r <= 'z':
			name = "Key" + strings.ToUpper(string(r))
		case r >= 'A' && r <= 'Z':
			name = "Shift+Key" + string(r)
		case r >= '0' && r <= '9':
			name = "Key" + string(r)
		default:
			name = runeKeys[r]
		}
	}
	if name != "" && msg.Alt {
		name = "Alt+" + name
	}
	return name
}
