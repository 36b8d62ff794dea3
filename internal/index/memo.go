package index

import (
	"sync"

	"fygallery/internal/gallery"
)

// Memo caches the mapping of the most recent collection. A rebuild happens
// only when a different *gallery.Collection is supplied.
type Memo struct {
	mu      sync.Mutex
	source  *gallery.Collection
	mapping *Mapping
	builds  int
}

// Get returns the mapping for c, rebuilding it if c is not the cached collection.
func (m *Memo) Get(c *gallery.Collection) *Mapping {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mapping != nil && m.source == c {
		return m.mapping
	}
	m.source = c
	m.mapping = Build(c)
	m.builds++
	return m.mapping
}

// Builds returns how many times a mapping has been built.
func (m *Memo) Builds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.builds
}
