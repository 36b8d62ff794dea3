package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for collection files that are neither JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown collection format")

// Format is the serialisation used for collection files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// IsCollectionFile reports whether path has a collection file extension.
func IsCollectionFile(path string) bool {
	_, err := FormatFor(path)
	return err == nil
}

// Decode parses a collection and validates it.
func Decode(data []byte, format Format) (*Collection, error) {
	var c Collection
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &c)
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collection: %w", err)
	}
	return &c, nil
}

// Encode serialises a collection.
func Encode(c *Collection, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LoadFile reads a JSON or YAML collection. A collection without a name is
// named after its file.
func LoadFile(path string) (*Collection, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// SaveFile writes a collection in the format implied by the file extension.
func SaveFile(path string, c *Collection) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(c, format)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write collection file %s: %w", path, err)
	}
	return nil
}
