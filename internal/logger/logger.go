// Package logger builds the zerolog loggers used by the command line tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config configures a logger
type Config struct {
	// Level is a zerolog level name, "info" when empty
	Level string

	// Format is "console" or "json", "console" when empty
	Format string

	// Output receives log lines, os.Stderr when nil
	Output io.Writer
}

// New creates a logger from cfg
func New(cfg Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch cfg.Format {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(level), nil
}

// WithScope returns a child logger tagging every event with scope
func WithScope(log zerolog.Logger, scope string) zerolog.Logger {
	return log.With().Str("scope", scope).Logger()
}
