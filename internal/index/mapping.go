// Package index flattens a gallery collection into one linear sequence and
// translates between global positions and (group, local position) pairs.
package index

import (
	"errors"
	"fmt"

	"fygallery/internal/gallery"
)

var (
	// ErrInvalidIndex is returned for global or local positions outside current bounds.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrNotFound is returned when a group id / local index pair has no entry.
	ErrNotFound = errors.New("not found")
)

// Entry is one image in the flattened traversal.
type Entry struct {
	GlobalIndex int
	GroupID     string
	GroupIndex  int // position of the group in the collection
	LocalIndex  int // position of the image within its group
	Image       gallery.Image
}

// Ref returns the identity of the entry's image.
func (e Entry) Ref() gallery.ImageRef {
	return gallery.ImageRef{GroupID: e.GroupID, ImageID: e.Image.ID}
}

// Range is the inclusive span of global indexes occupied by one group.
type Range struct {
	Start int
	End   int
}

// Len returns the number of entries in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Contains reports whether i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

type localKey struct {
	groupID string
	local   int
}

// Mapping is the flattened, read-only index over a collection.
type Mapping struct {
	entries  []Entry
	byLocal  map[localKey]int         // (group id, local index) -> global index
	byRef    map[gallery.ImageRef]int // (group id, image id) -> global index
	ranges   map[string]Range         // group id -> global span
	groupIDs []string                 // ids of non-empty groups, in order
}

// Build flattens c in group-major, local-minor order. Empty groups produce no
// entries and no range. Duplicate group ids violate the collection contract;
// the first occurrence wins for lookups.
func Build(c *gallery.Collection) *Mapping {
	total := c.ImageCount()
	m := &Mapping{
		entries: make([]Entry, 0, total),
		byLocal: make(map[localKey]int, total),
		byRef:   make(map[gallery.ImageRef]int, total),
		ranges:  make(map[string]Range),
	}
	if c == nil {
		return m
	}
	for gi, g := range c.Groups {
		if len(g.Images) == 0 {
			continue
		}
		_, seen := m.ranges[g.ID]
		start := len(m.entries)
		for li, img := range g.Images {
			global := len(m.entries)
			m.entries = append(m.entries, Entry{
				GlobalIndex: global,
				GroupID:     g.ID,
				GroupIndex:  gi,
				LocalIndex:  li,
				Image:       img,
			})
			if seen {
				continue
			}
			m.byLocal[localKey{g.ID, li}] = global
			ref := gallery.ImageRef{GroupID: g.ID, ImageID: img.ID}
			if _, dup := m.byRef[ref]; !dup {
				m.byRef[ref] = global
			}
		}
		if !seen {
			m.ranges[g.ID] = Range{Start: start, End: len(m.entries) - 1}
			m.groupIDs = append(m.groupIDs, g.ID)
		}
	}
	return m
}

// TotalCount returns the number of entries; 0 when the collection has no images.
func (m *Mapping) TotalCount() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// ByGlobalIndex returns the entry at global position i.
func (m *Mapping) ByGlobalIndex(i int) (Entry, error) {
	n := m.TotalCount()
	if i < 0 || i >= n {
		return Entry{}, fmt.Errorf("%w: global index %d out of bounds (total: %d)", ErrInvalidIndex, i, n)
	}
	return m.entries[i], nil
}

// GlobalIndexOf returns the global index of the image at localIndex in group groupID.
func (m *Mapping) GlobalIndexOf(groupID string, localIndex int) (int, error) {
	if m == nil {
		return -1, fmt.Errorf("%w: group %q local index %d", ErrNotFound, groupID, localIndex)
	}
	i, ok := m.byLocal[localKey{groupID, localIndex}]
	if !ok {
		return -1, fmt.Errorf("%w: group %q local index %d", ErrNotFound, groupID, localIndex)
	}
	return i, nil
}

// RangeOf returns the inclusive global span of a group's images. Unknown and
// empty groups are not found.
func (m *Mapping) RangeOf(groupID string) (Range, error) {
	if m == nil {
		return Range{}, fmt.Errorf("%w: group %q", ErrNotFound, groupID)
	}
	r, ok := m.ranges[groupID]
	if !ok {
		return Range{}, fmt.Errorf("%w: group %q", ErrNotFound, groupID)
	}
	return r, nil
}

// Locate returns the global index of an image by identity.
func (m *Mapping) Locate(ref gallery.ImageRef) (int, error) {
	if m == nil {
		return -1, fmt.Errorf("%w: image %s", ErrNotFound, ref)
	}
	i, ok := m.byRef[ref]
	if !ok {
		return -1, fmt.Errorf("%w: image %s", ErrNotFound, ref)
	}
	return i, nil
}

// Entries returns a copy of the flattened entry list.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// GroupIDs returns the ids of non-empty groups in traversal order.
func (m *Mapping) GroupIDs() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.groupIDs))
	copy(out, m.groupIDs)
	return out
}
