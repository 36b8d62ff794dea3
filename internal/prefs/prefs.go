// Package prefs stores per-collection viewer sessions in a BoltDB database.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileName     = "fygallery_prefs.db"
	SessionsBucket = "Sessions" // collection name -> JSON Session
)

// ErrNoSession is returned when no session is stored for a collection.
var ErrNoSession = errors.New("no stored session")

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Session is the restorable viewer state of one collection.
type Session struct {
	Collection      string    `json:"collection"`
	Source          string    `json:"source,omitempty"`
	SelectedGroupID string    `json:"selected_group_id"`
	GroupID         string    `json:"group_id,omitempty"` // image shown when the session was saved
	ImageID         string    `json:"image_id,omitempty"`
	ViewerOpen      bool      `json:"viewer_open"`
	CrossGroup      bool      `json:"cross_group"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DB manages the preferences database.
type DB struct {
	db     *bolt.DB
	path   string
	logger LoggerFunc
}

// DefaultDir returns the user config directory for fygallery.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "fygallery"), nil
}

// NewDB creates or opens the preferences database in dbDir. An empty dbDir
// selects DefaultDir, falling back to the current directory.
func NewDB(dbDir string, logger LoggerFunc) (*DB, error) {
	if dbDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			log.Printf("Warning: %v. Using current dir.", err)
			dir = "."
		}
		dbDir = dir
	}
	if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory %s: %w", dbDir, err)
	}

	dbPath := filepath.Join(dbDir, dbFileName)
	p := &DB{path: dbPath, logger: logger}
	p.logMessage("Using preferences database at: %s", dbPath)

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database %s: %w", dbPath, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(SessionsBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", SessionsBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	p.db = db
	return p, nil
}

func (p *DB) logMessage(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Path returns the database file path.
func (p *DB) Path() string {
	return p.path
}

// Close closes the database connection.
func (p *DB) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// SaveSession stores s under s.Collection, stamping UpdatedAt when unset.
func (p *DB) SaveSession(s Session) error {
	if s.Collection == "" {
		return fmt.Errorf("session has no collection name")
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session for %s: %w", s.Collection, err)
	}
	err = p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SessionsBucket)).Put([]byte(s.Collection), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save session for %s: %w", s.Collection, err)
	}
	p.logMessage("Saved session for %s", s.Collection)
	return nil
}

// LoadSession returns the session stored for collection, or ErrNoSession.
func (p *DB) LoadSession(collection string) (Session, error) {
	var s Session
	err := p.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(SessionsBucket)).Get([]byte(collection))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNoSession, collection)
		}
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode session for %s: %w", collection, err)
		}
		return nil
	})
	return s, err
}

// ListSessions returns all sessions sorted by collection name.
func (p *DB) ListSessions() ([]Session, error) {
	var sessions []Session
	err := p.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SessionsBucket)).ForEach(func(k, v []byte) error {
			var s Session
			if err := json.Unmarshal(v, &s); err != nil {
				p.logMessage("Skipping unreadable session %s: %v", string(k), err)
				return nil
			}
			sessions = append(sessions, s)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Collection < sessions[j].Collection })
	return sessions, nil
}

// DeleteSession removes the session of collection. Deleting a missing session is not an error.
func (p *DB) DeleteSession(collection string) error {
	err := p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SessionsBucket)).Delete([]byte(collection))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", collection, err)
	}
	return nil
}

// ClearSessions removes every stored session and returns how many there were.
func (p *DB) ClearSessions() (int, error) {
	count := 0
	err := p.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(SessionsBucket)).ForEach(func(_, _ []byte) error {
			count++
			return nil
		})
		if err != nil {
			return err
		}
		if err := tx.DeleteBucket([]byte(SessionsBucket)); err != nil {
			return err
		}
		_, err = tx.CreateBucket([]byte(SessionsBucket))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}
	p.logMessage("Cleared %d sessions", count)
	return count, nil
}
