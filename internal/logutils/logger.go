// Package logutils builds the zerolog logger used by the executables and adapts
// it to the message-only logger the internal packages accept.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to file, or human-readable output to
// stderr when file is empty. stdout stays free for command output.
//
// The level parameter can be one of: trace, debug, info, warn, error, fatal, panic.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	if file == "" {
		l, err := NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		return l, closer, err
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
	}
	osFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}
	closer = func() { _ = osFile.Close() }

	l, err := NewWithWriter(level, osFile)
	if err != nil {
		closer()
		return zerolog.Logger{}, func() {}, err
	}
	return l, closer, nil
}

// NewWithWriter returns a timestamped logger at level writing to w.
func NewWithWriter(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl), nil
}

// Func adapts l to a func(message string) logger; messages are logged at info.
func Func(l zerolog.Logger) func(message string) {
	return func(message string) {
		l.Info().Msg(message)
	}
}

// DebugFunc is Func at debug level, for chatty components.
func DebugFunc(l zerolog.Logger) func(message string) {
	return func(message string) {
		l.Debug().Msg(message)
	}
}
