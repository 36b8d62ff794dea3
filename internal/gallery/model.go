// Package gallery describes image collections: ordered groups of ordered images.
package gallery

import (
	"errors"
	"fmt"
)

// Image is a single displayable picture. URL is opaque to the gallery core.
type Image struct {
	ID          string `json:"id" yaml:"id"`
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Group is a named, ordered set of images. Image order defines the local index.
type Group struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Images []Image `json:"images" yaml:"images"`
}

// DisplayName returns the group name, or its id when no name was given.
func (g Group) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// Len returns the number of images in the group.
func (g Group) Len() int {
	return len(g.Images)
}

// Collection is the ordered list of groups. All images of group i precede
// all images of group i+1 in global order.
//
// A *Collection is treated as read-only once handed to the index package;
// callers that change data build a new Collection value.
type Collection struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// ImageCount returns the sum of all group sizes.
func (c *Collection) ImageCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, g := range c.Groups {
		n += len(g.Images)
	}
	return n
}

// Group looks up a group by id.
func (c *Collection) Group(id string) (*Group, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Groups {
		if c.Groups[i].ID == id {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// FirstGroupID returns the id of the first group, or "" for an empty collection.
func (c *Collection) FirstGroupID() string {
	if c == nil || len(c.Groups) == 0 {
		return ""
	}
	return c.Groups[0].ID
}

// ImageRef identifies an image by identity rather than by position, so it
// survives reordering of a rebuilt collection.
type ImageRef struct {
	GroupID string `json:"group_id"`
	ImageID string `json:"image_id"`
}

// String renders the reference as "group/image".
func (r ImageRef) String() string {
	return r.GroupID + "/" + r.ImageID
}

var (
	// ErrEmptyID is reported for groups or images without an id.
	ErrEmptyID = errors.New("empty id")
	// ErrDuplicateID is reported for repeated group ids, or repeated image ids within a group.
	ErrDuplicateID = errors.New("duplicate id")
)

// Validate checks the collection's input contract. The index package does not
// call it; loaders do.
func (c *Collection) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	seenGroups := make(map[string]bool, len(c.Groups))
	for gi, g := range c.Groups {
		if g.ID == "" {
			errs = append(errs, fmt.Errorf("group #%d: %w", gi, ErrEmptyID))
			continue
		}
		if seenGroups[g.ID] {
			errs = append(errs, fmt.Errorf("group %q: %w", g.ID, ErrDuplicateID))
		}
		seenGroups[g.ID] = true

		seenImages := make(map[string]bool, len(g.Images))
		for li, img := range g.Images {
			if img.ID == "" {
				errs = append(errs, fmt.Errorf("group %q image #%d: %w", g.ID, li, ErrEmptyID))
				continue
			}
			if seenImages[img.ID] {
				errs = append(errs, fmt.Errorf("group %q image %q: %w", g.ID, img.ID, ErrDuplicateID))
			}
			seenImages[img.ID] = true
		}
	}
	return errors.Join(errs...)
}
