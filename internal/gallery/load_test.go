package gallery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlCollection = `
groups:
  - id: A
    name: First
    images:
      - id: a1
        url: https://example.com/a1.jpg
        title: One
      - id: a2
        url: https://example.com/a2.jpg
  - id: empty
    name: Nothing here
    images: []
  - id: B
    images:
      - id: b1
        url: https://example.com/b1.jpg
        description: only image in B
`

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCollection), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trip", c.Name, "name defaults to the file name")
	require.Len(t, c.Groups, 3)
	assert.Equal(t, "First", c.Groups[0].Name)
	assert.Empty(t, c.Groups[1].Images)
	assert.Equal(t, "only image in B", c.Groups[2].Images[0].Description)
	assert.Equal(t, 3, c.ImageCount())
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, SaveFile(path, Sample()))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sample(), c)
}

func TestLoadFileRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "collection.txt"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`{"groups":[{"id":"a"},{"id":"a"}]}`), 0o644))
	_, err = LoadFile(dup)
	assert.True(t, errors.Is(err, ErrDuplicateID))

	broken := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(broken, []byte("groups: [::"), 0o644))
	_, err = LoadFile(broken)
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("x.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	assert.True(t, IsCollectionFile("a/b/c.json"))
	assert.False(t, IsCollectionFile("a/b/c.png"))
}
