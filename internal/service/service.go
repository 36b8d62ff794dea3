// Package service holds the application logic shared by the GUI, the TUI and
// the CLI: loading collections, driving a viewer and persisting sessions.
package service

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fygallery/internal/gallery"
	"fygallery/internal/prefs"
	"fygallery/internal/scan"
)

// SampleSource names the built-in sample collection.
const SampleSource = "sample"

// SessionStore abstracts the preferences DB for easier testing and decoupling.
type SessionStore interface {
	SaveSession(s prefs.Session) error
	LoadSession(collection string) (prefs.Session, error)
	ListSessions() ([]prefs.Session, error)
	DeleteSession(collection string) error
	ClearSessions() (int, error)
	Close() error
}

// Service is the main entry point for business logic.
type Service struct {
	Sessions    SessionStore
	Images      *ImageService
	Logger      func(string)
	ScanOptions scan.Options
}

// NewService constructs a new Service. sessions may be nil when nothing is persisted.
func NewService(sessions SessionStore, logger func(string)) *Service {
	return &Service{
		Sessions: sessions,
		Images:   NewImageService(),
		Logger:   logger,
	}
}

func (s *Service) logMessage(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// LoadCollection resolves source: "sample", a directory to scan, or a JSON/YAML collection file.
func (s *Service) LoadCollection(source string) (*gallery.Collection, error) {
	if source == SampleSource {
		return gallery.Sample(), nil
	}
	fi, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", source, err)
	}
	var c *gallery.Collection
	if fi.IsDir() {
		c, err = scan.Collection(source, s.ScanOptions)
	} else {
		c, err = gallery.LoadFile(source)
	}
	if err != nil {
		return nil, err
	}
	s.logMessage("Loaded %s: %d groups, %d images", source, len(c.Groups), c.ImageCount())
	return c, nil
}

// WatchCollection returns a watcher for a collection file source. Directories
// and the sample are not watched.
func (s *Service) WatchCollection(source string) (*gallery.Watcher, error) {
	if source == SampleSource || !gallery.IsCollectionFile(source) {
		return nil, fmt.Errorf("%w: only collection files can be watched", gallery.ErrUnknownFormat)
	}
	return gallery.NewWatcher(source, gallery.LoggerFunc(s.Logger))
}

// SessionFor captures the restorable state of vm.
func SessionFor(vm *ViewManager, source string) prefs.Session {
	st := vm.State()
	sess := prefs.Session{
		Collection:      vm.Collection().Name,
		Source:          source,
		SelectedGroupID: vm.SelectedGroup(),
		ViewerOpen:      st.ViewerOpen,
		CrossGroup:      st.CrossGroupEnabled,
		UpdatedAt:       time.Now().UTC(),
	}
	if ref, ok := vm.CurrentRef(); ok {
		sess.GroupID = ref.GroupID
		sess.ImageID = ref.ImageID
	}
	return sess
}

// SaveSession persists the state of vm under its collection name.
func (s *Service) SaveSession(vm *ViewManager, source string) error {
	if s.Sessions == nil {
		return nil
	}
	if vm.Collection() == nil || vm.Collection().Name == "" {
		return fmt.Errorf("cannot save session: collection has no name")
	}
	if source != "" && source != SampleSource {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
	}
	return s.Sessions.SaveSession(SessionFor(vm, source))
}

// RestoreSession applies the stored session to vm. Groups or images that no
// longer exist are skipped. It reports whether a session was found.
func (s *Service) RestoreSession(vm *ViewManager) (bool, error) {
	if s.Sessions == nil || vm.Collection() == nil || vm.Collection().Name == "" {
		return false, nil
	}
	sess, err := s.Sessions.LoadSession(vm.Collection().Name)
	if errors.Is(err, prefs.ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	vm.Close()
	vm.SetCrossGroup(sess.CrossGroup)
	if sess.SelectedGroupID != "" {
		if err := vm.SelectGroup(sess.SelectedGroupID); err != nil {
			s.logMessage("Session group %s skipped: %v", sess.SelectedGroupID, err)
		}
	}
	if sess.ViewerOpen && sess.ImageID != "" {
		ref := gallery.ImageRef{GroupID: sess.GroupID, ImageID: sess.ImageID}
		i, err := vm.Mapping().Locate(ref)
		if err != nil {
			s.logMessage("Session image %s skipped: %v", ref, err)
			return true, nil
		}
		if err := vm.Open(i); err != nil {
			return true, err
		}
	}
	return true, nil
}

// ListSessions returns stored sessions.
func (s *Service) ListSessions() ([]prefs.Session, error) {
	if s.Sessions == nil {
		return nil, nil
	}
	return s.Sessions.ListSessions()
}

// ClearSessions deletes one named session, or all when name is empty.
func (s *Service) ClearSessions(name string) (int, error) {
	if s.Sessions == nil {
		return 0, nil
	}
	if name == "" {
		return s.Sessions.ClearSessions()
	}
	if _, err := s.Sessions.LoadSession(name); err != nil {
		return 0, err
	}
	if err := s.Sessions.DeleteSession(name); err != nil {
		return 0, err
	}
	return 1, nil
}
