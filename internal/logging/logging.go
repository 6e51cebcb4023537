// Package logging sets up the application logger. The terminal belongs to
// the TUI, so everything goes to a rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the log file.
type Options struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// New opens the log file and returns a logger writing to it. The returned
// closer releases the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if opts.File == "" {
		return zerolog.Nop(), nil, fmt.Errorf("logging: no log file")
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	return NewWithWriter(w, level), w, nil
}

// NewWithWriter builds a logger on w.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
