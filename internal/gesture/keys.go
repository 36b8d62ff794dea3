package gesture

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a viewer command bound to keys.
type Action string

const (
	ActionNone             Action = ""
	ActionNext             Action = "next"
	ActionPrev             Action = "prev"
	ActionClose            Action = "close"
	ActionToggleCrossGroup Action = "toggle_cross_group"
	ActionBack             Action = "back"
	ActionForward          Action = "forward"
	ActionTogglePlay       Action = "toggle_play"
	ActionFirst            Action = "first"
	ActionLast             Action = "last"
)

// Actions lists every bindable action.
var Actions = []Action{
	ActionNext, ActionPrev, ActionClose, ActionToggleCrossGroup,
	ActionBack, ActionForward, ActionTogglePlay, ActionFirst, ActionLast,
}

// IsAction reports whether name is a bindable action.
func IsAction(name string) bool {
	for _, a := range Actions {
		if string(a) == name {
			return true
		}
	}
	return false
}

// DefaultBindings returns a fresh copy of the default key bindings.
func DefaultBindings() map[string][]string {
	return map[string][]string{
		string(ActionNext):             {"ArrowRight"},
		string(ActionPrev):             {"ArrowLeft"},
		string(ActionClose):            {"Escape"},
		string(ActionToggleCrossGroup): {"KeyC"},
		string(ActionBack):             {"Backspace"},
		string(ActionForward):          {"Shift+Backspace"},
		string(ActionTogglePlay):       {"Space"},
		string(ActionFirst):            {"Home"},
		string(ActionLast):             {"End"},
	}
}

var keyNames = func() map[string]bool {
	names := map[string]bool{
		"Space": true, "Backspace": true, "Enter": true, "Escape": true, "Tab": true,
		"Home": true, "End": true, "PageUp": true, "PageDown": true,
		"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,
		"Comma": true, "Period": true, "Slash": true, "Minus": true, "Equal": true,
	}
	for c := 'A'; c <= 'Z'; c++ {
		names["Key"+string(c)] = true
	}
	for c := '0'; c <= '9'; c++ {
		names["Key"+string(c)] = true
	}
	return names
}()

var modifierOrder = []string{"Ctrl", "Alt", "Shift"}

// NormalizeKey validates a key string such as "Shift+KeyB" and returns it
// with modifiers in canonical order.
func NormalizeKey(key string) (string, error) {
	parts := strings.Split(key, "+")
	name := parts[len(parts)-1]
	if name == "" {
		return "", fmt.Errorf("empty key in %q", key)
	}
	if !keyNames[name] {
		return "", fmt.Errorf("unknown key: %s", name)
	}
	mods := map[string]bool{}
	for _, m := range parts[:len(parts)-1] {
		switch strings.ToLower(m) {
		case "shift":
			mods["Shift"] = true
		case "ctrl":
			mods["Ctrl"] = true
		case "alt":
			mods["Alt"] = true
		default:
			return "", fmt.Errorf("unknown modifier: %s", m)
		}
	}
	var b strings.Builder
	for _, m := range modifierOrder {
		if mods[m] {
			b.WriteString(m)
			b.WriteByte('+')
		}
	}
	b.WriteString(name)
	return b.String(), nil
}

// KeyMap resolves key strings to actions.
type KeyMap struct {
	byKey map[string]Action
}

// NewKeyMap validates bindings and builds the reverse lookup. Actions missing
// from bindings keep their defaults.
func NewKeyMap(bindings map[string][]string) (*KeyMap, error) {
	merged := DefaultBindings()
	for action, keys := range bindings {
		merged[action] = keys
	}
	if err := ValidateBindings(merged); err != nil {
		return nil, err
	}
	km := &KeyMap{byKey: make(map[string]Action)}
	for action, keys := range merged {
		for _, k := range keys {
			norm, _ := NormalizeKey(k)
			km.byKey[norm] = Action(action)
		}
	}
	return km, nil
}

// DefaultKeyMap returns the key map for DefaultBindings.
func DefaultKeyMap() *KeyMap {
	km, err := NewKeyMap(nil)
	if err != nil {
		panic(err)
	}
	return km
}

// Lookup returns the action bound to key, or ActionNone.
func (km *KeyMap) Lookup(key string) Action {
	norm, err := NormalizeKey(key)
	if err != nil {
		return ActionNone
	}
	return km.byKey[norm]
}

// KeysFor returns the sorted keys bound to action.
func (km *KeyMap) KeysFor(action Action) []string {
	var keys []string
	for k, a := range km.byKey {
		if a == action {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// ValidateBindings rejects unknown actions, malformed keys and keys bound
// to more than one action.
func ValidateBindings(bindings map[string][]string) error {
	actions := make([]string, 0, len(bindings))
	for action := range bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	keyToAction := make(map[string]string)
	for _, action := range actions {
		if !IsAction(action) {
			return fmt.Errorf("unknown action %q", action)
		}
		for _, key := range bindings[action] {
			norm, err := NormalizeKey(key)
			if err != nil {
				return fmt.Errorf("invalid key %q for action %q: %w", key, action, err)
			}
			if existing, ok := keyToAction[norm]; ok {
				return fmt.Errorf("key conflict: %q is bound to both %q and %q", key, existing, action)
			}
			keyToAction[norm] = action
		}
	}
	return nil
}
