package ui

import (
	"image/color"

	"fygallery/internal/gesture"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// swipeArea is a transparent layer over the viewer image that turns drags
// into swipe directions.
type swipeArea struct {
	widget.BaseWidget
	detector *gesture.Detector
	onSwipe  func(gesture.Direction)
}

var _ fyne.Draggable = (*swipeArea)(nil)

func newSwipeArea(threshold float64, onSwipe func(gesture.Direction)) *swipeArea {
	s := &swipeArea{
		detector: gesture.NewDetector(threshold),
		onSwipe:  onSwipe,
	}
	s.ExtendBaseWidget(s)
	return s
}

// CreateRenderer is a mandatory method for a Fyne widget.
func (s *swipeArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

// Dragged records the pointer; the first event of a drag also fixes its origin.
func (s *swipeArea) Dragged(ev *fyne.DragEvent) {
	p := gesture.Point{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	if !s.detector.Active() {
		s.detector.Begin(gesture.Point{X: p.X - float64(ev.Dragged.DX), Y: p.Y - float64(ev.Dragged.DY)})
	}
	s.detector.Move(p)
}

// DragEnd classifies the finished drag.
func (s *swipeArea) DragEnd() {
	d := s.detector.EndAtLast()
	if d != gesture.None && s.onSwipe != nil {
		s.onSwipe(d)
	}
}
