package ui

import (
	"fmt"

	"fygallery/internal/gallery"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is shown in the About dialog.
var Version = "dev"

// About is a modal with the program version and a summary of the loaded collection.
type About struct {
	parent fyne.Window
	body   fyne.CanvasObject
	d      dialog.Dialog
}

func NewAbout(parent fyne.Window, icon fyne.Resource, c *gallery.Collection) *About {
	logo := canvas.NewImageFromResource(icon)
	logo.FillMode = canvas.ImageFillContain
	logo.SetMinSize(fyne.NewSize(64, 64))

	header := container.NewVBox(
		widget.NewLabelWithStyle("FyGallery "+Version, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Browse image groups and page through them as one sequence.",
			fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	)

	form := widget.NewForm()
	if c != nil {
		form.Append("Collection", widget.NewLabel(c.Name))
		form.Append("Groups", widget.NewLabel(fmt.Sprint(len(c.Groups))))
		form.Append("Images", widget.NewLabel(fmt.Sprint(c.ImageCount())))
	}

	return &About{
		parent: parent,
		body:   container.NewVBox(logo, header, widget.NewSeparator(), form),
	}
}

func (a *About) Show() {
	a.d = dialog.NewCustom("About", "OK", a.body, a.parent)
	a.d.Show()
}

func (a *About) Hide() {
	if a.d != nil {
		a.d.Hide()
	}
}
