package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// galleryTheme wraps the user's theme with tighter padding and a dark
// backdrop for the viewer overlay.
type galleryTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*galleryTheme)(nil)

// colorNameViewerBackdrop is the overlay colour behind an open image.
const colorNameViewerBackdrop fyne.ThemeColorName = "fygalleryViewerBackdrop"

func (t *galleryTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2
	case theme.SizeNameInnerPadding:
		return 4
	}
	return t.Theme.Size(name)
}

func (t *galleryTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == colorNameViewerBackdrop {
		return color.NRGBA{A: 0xe6}
	}
	return t.Theme.Color(name, variant)
}

// NewGalleryTheme creates the theme wrapper around base.
func NewGalleryTheme(base fyne.Theme) fyne.Theme {
	return &galleryTheme{Theme: base}
}
