// Package scan turns a directory tree into a gallery collection: every
// directory holding images becomes one group.
package scan

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fygallery/internal/gallery"

	"github.com/gobwas/glob"
	"github.com/maruel/natural"
)

// DefaultPatterns match the image types the viewers can show.
var DefaultPatterns = []string{"*.{png,jpg,jpeg,gif,webp,bmp}"}

// RootGroupID is the id of the group holding images directly under the root.
const RootGroupID = "."

// Options control a directory scan.
type Options struct {
	// Patterns are glob patterns matched case-insensitively against file names.
	Patterns []string
	// KeepEmpty keeps directories without images as empty groups.
	KeepEmpty bool
	// Name overrides the collection name (default: the root's base name).
	Name string
}

// Matcher decides which files are images.
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles patterns; an empty list means DefaultPatterns.
func NewMatcher(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	m := &Matcher{}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// IsImage checks a file name against the patterns.
func (m *Matcher) IsImage(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	for _, g := range m.globs {
		if g.Match(lower) {
			return true
		}
	}
	return false
}

// FileURL converts an absolute path into a file:// URL.
func FileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// Collection scans root and builds a collection. Groups are ordered by
// natural order of their relative path, images by natural order of file name.
func Collection(root string, opts Options) (*gallery.Collection, error) {
	matcher, err := NewMatcher(opts.Patterns)
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	groups := make(map[string]*gallery.Group)
	var groupIDs []string
	addGroup := func(id, name string) *gallery.Group {
		if g, ok := groups[id]; ok {
			return g
		}
		g := &gallery.Group{ID: id, Name: name, Images: []gallery.Image{}}
		groups[id] = g
		groupIDs = append(groupIDs, id)
		return g
	}

	walkErr := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(absRoot, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p != absRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if opts.KeepEmpty {
				addGroup(rel, groupName(rel, absRoot))
			}
			return nil
		}
		if !d.Type().IsRegular() || !matcher.IsImage(d.Name()) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.Size() == 0 {
			return nil
		}
		dirRel := filepath.ToSlash(filepath.Dir(rel))
		g := addGroup(dirRel, groupName(dirRel, absRoot))
		g.Images = append(g.Images, gallery.Image{
			ID:    d.Name(),
			URL:   FileURL(p),
			Title: strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", absRoot, walkErr)
	}

	sort.Slice(groupIDs, func(i, j int) bool {
		// The root group always comes first.
		if groupIDs[i] == RootGroupID || groupIDs[j] == RootGroupID {
			return groupIDs[i] == RootGroupID && groupIDs[j] != RootGroupID
		}
		return natural.Less(groupIDs[i], groupIDs[j])
	})

	name := opts.Name
	if name == "" {
		name = filepath.Base(absRoot)
	}
	c := &gallery.Collection{Name: name, Groups: make([]gallery.Group, 0, len(groupIDs))}
	for _, id := range groupIDs {
		g := groups[id]
		sort.SliceStable(g.Images, func(i, j int) bool {
			return natural.Less(g.Images[i].ID, g.Images[j].ID)
		})
		c.Groups = append(c.Groups, *g)
	}
	return c, nil
}

func groupName(rel, absRoot string) string {
	if rel == RootGroupID {
		return filepath.Base(absRoot)
	}
	return filepath.Base(filepath.FromSlash(rel))
}
