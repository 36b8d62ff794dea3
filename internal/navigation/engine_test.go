package navigation

import (
	"errors"
	"testing"

	"fygallery/internal/gallery"
	"fygallery/internal/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collection(sizes map[string]int, order ...string) *gallery.Collection {
	c := &gallery.Collection{}
	for _, id := range order {
		g := gallery.Group{ID: id}
		for i := 0; i < sizes[id]; i++ {
			g.Images = append(g.Images, gallery.Image{ID: id + string(rune('1'+i))})
		}
		c.Groups = append(c.Groups, g)
	}
	return c
}

// groups [A:{a1,a2}, B:{b1}]
func abMapping() *index.Mapping {
	return index.Build(collection(map[string]int{"A": 2, "B": 1}, "A", "B"))
}

func TestInitialStateClosed(t *testing.T) {
	e := New(abMapping(), true)
	assert.Equal(t, State{ViewerOpen: false, CurrentGlobalIndex: Closed, CrossGroupEnabled: true}, e.State())
}

func TestOpenValidatesIndex(t *testing.T) {
	e := New(abMapping(), true)
	for _, i := range []int{-1, 3} {
		err := e.Open(i)
		assert.True(t, errors.Is(err, index.ErrInvalidIndex), "open(%d)", i)
		assert.False(t, e.State().ViewerOpen)
		assert.Equal(t, Closed, e.State().CurrentGlobalIndex)
	}

	require.NoError(t, e.Open(2))
	assert.Equal(t, State{ViewerOpen: true, CurrentGlobalIndex: 2, CrossGroupEnabled: true}, e.State())

	// a failed open from Open leaves the state alone
	assert.Error(t, e.Open(7))
	assert.Equal(t, 2, e.State().CurrentGlobalIndex)

	// open is valid from any state
	require.NoError(t, e.Open(0))
	assert.Equal(t, 0, e.State().CurrentGlobalIndex)
}

func TestCloseIsIdempotent(t *testing.T) {
	e := New(abMapping(), true)
	e.Close()
	assert.Equal(t, Closed, e.State().CurrentGlobalIndex)

	require.NoError(t, e.Open(1))
	e.Close()
	e.Close()
	assert.False(t, e.State().ViewerOpen)
	assert.Equal(t, Closed, e.State().CurrentGlobalIndex)
}

func TestNavigationWhileClosed(t *testing.T) {
	e := New(abMapping(), true)
	i, err := e.Advance()
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, Closed, i)
	_, err = e.Retreat()
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.True(t, errors.Is(e.JumpTo(0), ErrInvalidState))
	assert.False(t, e.State().ViewerOpen)
}

func TestCrossGroupScenario(t *testing.T) {
	e := New(abMapping(), true)
	require.NoError(t, e.Open(1))

	i, err := e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	i, err = e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 0, i, "wraps past the end of the collection")

	i, err = e.Retreat()
	require.NoError(t, err)
	assert.Equal(t, 2, i, "retreat from 0 lands on the last index")
	assert.True(t, e.State().ViewerOpen)
}

func TestConfinedScenario(t *testing.T) {
	e := New(abMapping(), false)
	require.NoError(t, e.Open(1))

	i, err := e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 0, i, "wraps within A, never reaching B")

	i, err = e.Retreat()
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	require.NoError(t, e.JumpTo(2))
	for n := 0; n < 3; n++ {
		i, err = e.Advance()
		require.NoError(t, err)
		assert.Equal(t, 2, i, "single-image group loops on itself")
	}
}

func TestWrapLaw(t *testing.T) {
	for _, sizes := range [][]int{{1}, {3}, {0, 2, 0, 5, 1}, {4, 4, 4}} {
		c := &gallery.Collection{}
		for g, n := range sizes {
			grp := gallery.Group{ID: string(rune('A' + g))}
			for i := 0; i < n; i++ {
				grp.Images = append(grp.Images, gallery.Image{ID: string(rune('a'+g)) + string(rune('0'+i))})
			}
			c.Groups = append(c.Groups, grp)
		}
		m := index.Build(c)
		last := m.TotalCount() - 1
		e := New(m, true)

		require.NoError(t, e.Open(last))
		i, err := e.Advance()
		require.NoError(t, err)
		assert.Equal(t, 0, i)

		i, err = e.Retreat()
		require.NoError(t, err)
		assert.Equal(t, last, i)
	}
}

func TestConfinedNeverLeavesGroup(t *testing.T) {
	m := index.Build(collection(map[string]int{"A": 3, "B": 0, "C": 4, "D": 1}, "A", "B", "C", "D"))
	for start := 0; start < m.TotalCount(); start++ {
		entry, err := m.ByGlobalIndex(start)
		require.NoError(t, err)
		r, err := m.RangeOf(entry.GroupID)
		require.NoError(t, err)

		for _, step := range []func(*Engine) (int, error){(*Engine).Advance, (*Engine).Retreat} {
			e := New(m, false)
			require.NoError(t, e.Open(start))
			visited := map[int]bool{}
			for n := 0; n < 2*r.Len(); n++ {
				i, err := step(e)
				require.NoError(t, err)
				require.True(t, r.Contains(i), "index %d outside %v", i, r)
				visited[i] = true
			}
			assert.Len(t, visited, r.Len(), "every image of the group is reachable")
		}
	}
}

func TestSingleImageSelfLoop(t *testing.T) {
	m := index.Build(collection(map[string]int{"A": 1}, "A"))
	for _, cross := range []bool{true, false} {
		e := New(m, cross)
		require.NoError(t, e.Open(0))
		for n := 0; n < 3; n++ {
			i, err := e.Advance()
			require.NoError(t, err)
			assert.Equal(t, 0, i)
			i, err = e.Retreat()
			require.NoError(t, err)
			assert.Equal(t, 0, i)
		}
	}
}

func TestZeroImages(t *testing.T) {
	for _, m := range []*index.Mapping{
		index.Build(nil),
		index.Build(collection(map[string]int{"A": 0}, "A")),
	} {
		e := New(m, true)
		for _, i := range []int{-1, 0, 1} {
			assert.True(t, errors.Is(e.Open(i), index.ErrInvalidIndex))
		}
		assert.False(t, e.State().ViewerOpen)
		assert.Equal(t, Closed, e.State().CurrentGlobalIndex)
	}
}

func TestToggleMidSession(t *testing.T) {
	e := New(abMapping(), true)
	require.NoError(t, e.Open(1))

	assert.False(t, e.ToggleCrossGroup())
	assert.Equal(t, 1, e.State().CurrentGlobalIndex, "toggle never moves the cursor")

	i, err := e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	assert.True(t, e.ToggleCrossGroup())
	require.NoError(t, e.JumpTo(1))
	i, err = e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	e.SetCrossGroup(false)
	assert.False(t, e.State().CrossGroupEnabled)
}

func TestBounds(t *testing.T) {
	e := New(abMapping(), true)
	_, err := e.Bounds()
	assert.True(t, errors.Is(err, ErrInvalidState))

	require.NoError(t, e.Open(0))
	r, err := e.Bounds()
	require.NoError(t, err)
	assert.Equal(t, index.Range{Start: 0, End: 2}, r)

	e.SetCrossGroup(false)
	r, err = e.Bounds()
	require.NoError(t, err)
	assert.Equal(t, index.Range{Start: 0, End: 1}, r)
}

func TestRebindCloses(t *testing.T) {
	e := New(abMapping(), false)
	require.NoError(t, e.Open(2))

	m := index.Build(collection(map[string]int{"X": 1}, "X"))
	e.Rebind(m)
	assert.Same(t, m, e.Mapping())
	assert.Equal(t, State{ViewerOpen: false, CurrentGlobalIndex: Closed, CrossGroupEnabled: false}, e.State())
}
