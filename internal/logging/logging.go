// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger output.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Default: info.
	Level string

	// Format is "console" or "json". Default: console.
	Format string

	// Output receives log lines. Default: os.Stderr.
	Output io.Writer
}

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// Init replaces the base logger.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console", "text":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	logger := zerolog.New(out).With().Timestamp().Logger().Level(level)

	mu.Lock()
	base = logger
	mu.Unlock()
	return nil
}

// ParseLevel maps a level name onto a zerolog level. Empty means info.
func ParseLevel(value string) (zerolog.Level, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	if value == "warning" {
		value = "warn"
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

// Logger returns the base logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Component returns a logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}
