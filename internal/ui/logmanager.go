package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/widget"
)

// DefaultMaxLogMessages bounds the status bar history.
const DefaultMaxLogMessages = 100

// LogUIManager keeps recent log messages and pages through them in the status bar.
// Every message is also forwarded to the backing logger.
type LogUIManager struct {
	messages []string
	current  int
	max      int
	backing  func(string)
	now      func() time.Time

	label   *widget.Label
	upBtn   *widget.Button
	downBtn *widget.Button
}

// NewLogUIManager wires the status bar widgets. backing may be nil.
func NewLogUIManager(label *widget.Label, upBtn, downBtn *widget.Button, maxMessages int, backing func(string)) *LogUIManager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxLogMessages
	}
	return &LogUIManager{
		messages: make([]string, 0, maxMessages),
		current:  -1,
		max:      maxMessages,
		backing:  backing,
		now:      time.Now,
		label:    label,
		upBtn:    upBtn,
		downBtn:  downBtn,
	}
}

// AddLogMessage stores message and shows it. Must run on the fyne goroutine.
func (lm *LogUIManager) AddLogMessage(message string) {
	if lm.backing != nil {
		lm.backing(message)
	}
	lm.messages = append(lm.messages, lm.now().Format("15:04:05")+" "+message)
	if len(lm.messages) > lm.max {
		lm.messages = lm.messages[len(lm.messages)-lm.max:]
	}
	lm.current = len(lm.messages) - 1
	lm.UpdateLogDisplay()
}

// Messages returns the stored messages, oldest first.
func (lm *LogUIManager) Messages() []string {
	out := make([]string, len(lm.messages))
	copy(out, lm.messages)
	return out
}

// UpdateLogDisplay renders the selected message and the paging buttons.
func (lm *LogUIManager) UpdateLogDisplay() {
	if lm.label == nil || lm.upBtn == nil || lm.downBtn == nil {
		return
	}
	if len(lm.messages) == 0 {
		lm.label.SetText("")
		lm.upBtn.Disable()
		lm.downBtn.Disable()
		return
	}

	if lm.current < 0 {
		lm.current = 0
	} else if lm.current >= len(lm.messages) {
		lm.current = len(lm.messages) - 1
	}

	lm.label.SetText(fmt.Sprintf("[%d/%d] %s", lm.current+1, len(lm.messages), lm.messages[lm.current]))
	if lm.current <= 0 {
		lm.upBtn.Disable()
	} else {
		lm.upBtn.Enable()
	}
	if lm.current >= len(lm.messages)-1 {
		lm.downBtn.Disable()
	} else {
		lm.downBtn.Enable()
	}
}

// ShowPreviousLogMessage pages back.
func (lm *LogUIManager) ShowPreviousLogMessage() {
	if len(lm.messages) == 0 || lm.current <= 0 {
		return
	}
	lm.current--
	lm.UpdateLogDisplay()
}

// ShowNextLogMessage pages forward.
func (lm *LogUIManager) ShowNextLogMessage() {
	if len(lm.messages) == 0 || lm.current >= len(lm.messages)-1 {
		return
	}
	lm.current++
	lm.UpdateLogDisplay()
}
