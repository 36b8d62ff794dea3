package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  fyne.KeyName
		want string
	}{
		{fyne.KeyRight, "ArrowRight"},
		{fyne.KeyEscape, "Escape"},
		{fyne.KeyBackspace, "Backspace"},
		{fyne.KeyReturn, "Enter"},
		{fyne.KeyEnter, "Enter"},
		{fyne.KeyPageDown, "PageDown"},
		{fyne.KeyC, "KeyC"},
		{fyne.Key7, "Key7"},
		{fyne.KeyF1, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, keyName(tt.key))
		})
	}
}

func TestFyneKey(t *testing.T) {
	k, mod, ok := fyneKey("Shift+Backspace")
	assert.True(t, ok)
	assert.Equal(t, fyne.KeyBackspace, k)
	assert.Equal(t, fyne.KeyModifierShift, mod)

	k, mod, ok = fyneKey("Ctrl+Alt+KeyB")
	assert.True(t, ok)
	assert.Equal(t, fyne.KeyB, k)
	assert.Equal(t, fyne.KeyModifierControl|fyne.KeyModifierAlt, mod)

	k, _, ok = fyneKey("Enter")
	assert.True(t, ok)
	assert.Equal(t, fyne.KeyReturn, k)

	_, _, ok = fyneKey("Hyper+KeyB")
	assert.False(t, ok)
	_, _, ok = fyneKey("F13")
	assert.False(t, ok)
}
