package gallery

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultReloadDelay = 200 * time.Millisecond

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Watcher reloads a collection file whenever it changes on disk. Each reload
// yields a new *Collection, so consumers keyed on identity rebuild.
type Watcher struct {
	path      string
	delay     time.Duration
	fsWatcher *fsnotify.Watcher
	updates   chan *Collection
	logger    LoggerFunc
}

// NewWatcher watches the directory holding path; editors often replace files
// rather than writing them in place.
func NewWatcher(path string, logger LoggerFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if !IsCollectionFile(abs) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, abs)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:      abs,
		delay:     defaultReloadDelay,
		fsWatcher: fsWatcher,
		updates:   make(chan *Collection, 1),
		logger:    logger,
	}, nil
}

// SetDelay changes how long the watcher waits for writes to settle.
func (w *Watcher) SetDelay(d time.Duration) {
	if d > 0 {
		w.delay = d
	}
}

// Updates delivers freshly loaded collections. It is closed when Run returns.
func (w *Watcher) Updates() <-chan *Collection {
	return w.updates
}

func (w *Watcher) logMessage(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Run processes file events until ctx is done. Invalid intermediate writes are
// logged and skipped; the previous collection stays in use.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.fsWatcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logMessage("collection watcher error: %v", err)
		case <-fire:
			fire = nil
			c, err := LoadFile(w.path)
			if err != nil {
				w.logMessage("collection reload skipped: %v", err)
				continue
			}
			// Keep only the newest collection if the consumer is behind.
			select {
			case <-w.updates:
			default:
			}
			w.updates <- c
		}
	}
}
