// Package logging configures zerolog for the TUI and the headless commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to output, as accepted by
	// zerolog.ParseLevel. Empty means info.
	Level string

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// File, when set, receives the logs instead of Output. The TUI needs this
	// so log lines never land on the alternate screen.
	File string

	// Output is used when File is empty (default: os.Stderr).
	Output io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the logger and installs it as the global zerolog logger.
// Close the returned io.Closer on exit to release the log file.
func Setup(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = cfg.Output
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		out = f
		closer = f
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: cfg.File != ""}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, closer, nil
}

// ParseLevel parses a level name case-insensitively. Empty and
// unset levels mean info.
func ParseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if l == zerolog.NoLevel {
		return zerolog.InfoLevel, nil
	}
	return l, nil
}

// Component tags base with the component name.
func Component(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
