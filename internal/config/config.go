// Package config loads fygallery settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fygallery/internal/gesture"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// AppName names the config and data directories.
const AppName = "fygallery"

// Config is the complete application configuration.
type Config struct {
	Viewer    ViewerConfig        `yaml:"viewer"`
	Slideshow SlideshowConfig     `yaml:"slideshow"`
	Keys      map[string][]string `yaml:"keys"`
	Log       LogConfig           `yaml:"log"`
	Storage   StorageConfig       `yaml:"storage"`
}

// ViewerConfig controls navigation and the viewer overlay.
type ViewerConfig struct {
	CrossGroup     bool    `yaml:"cross_group"`
	ShowGroupInfo  bool    `yaml:"show_group_info"`
	SwipeThreshold float64 `yaml:"swipe_threshold"`
	TransitionMS   int     `yaml:"transition_ms"` // 0 disables suppression
	HistorySize    int     `yaml:"history_size"`
}

// SlideshowConfig controls automatic advance.
type SlideshowConfig struct {
	Autoplay        bool    `yaml:"autoplay"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
}

// LogConfig selects the log level and an optional log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StorageConfig locates the preferences database. Empty means the user config dir.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			CrossGroup:     true,
			ShowGroupInfo:  true,
			SwipeThreshold: gesture.DefaultThreshold,
			TransitionMS:   0,
			HistorySize:    50,
		},
		Slideshow: SlideshowConfig{
			Autoplay:        false,
			IntervalSeconds: 2.0,
		},
		Keys: gesture.DefaultBindings(),
		Log:  LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/fygallery/config.yaml or the platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.Keys = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if cfg.Keys == nil {
		cfg.Keys = make(map[string][]string)
	}
	for action, keys := range gesture.DefaultBindings() {
		if _, ok := cfg.Keys[action]; !ok {
			cfg.Keys[action] = keys
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and key bindings.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Viewer.SwipeThreshold <= 0 {
		return fmt.Errorf("viewer.swipe_threshold must be > 0")
	}
	if c.Viewer.TransitionMS < 0 {
		return fmt.Errorf("viewer.transition_ms must be >= 0")
	}
	if c.Viewer.HistorySize < 0 {
		return fmt.Errorf("viewer.history_size must be >= 0")
	}
	if c.Slideshow.IntervalSeconds < 0.1 {
		return fmt.Errorf("slideshow.interval_seconds must be >= 0.1")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := gesture.ValidateBindings(c.Keys); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	return nil
}

// SlideshowInterval returns the slideshow interval as a duration.
func (c *Config) SlideshowInterval() time.Duration {
	return time.Duration(c.Slideshow.IntervalSeconds * float64(time.Second))
}

// TransitionDuration returns the automatic transition expiry.
func (c *Config) TransitionDuration() time.Duration {
	return time.Duration(c.Viewer.TransitionMS) * time.Millisecond
}

// KeyMap builds the viewer key map from the configured bindings.
func (c *Config) KeyMap() (*gesture.KeyMap, error) {
	return gesture.NewKeyMap(c.Keys)
}

// StorageDir returns the preferences directory.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}
