// Package logging builds the zerolog loggers used across slng.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Config struct {
	Level  string
	Format string
	Output io.Writer
	// NoColor disables colors of the console format.
	NoColor bool
}

// New returns a logger for cfg. An empty level means warn, an empty output
// means stderr so logs never mix with request output.
func New(cfg Config) (zerolog.Logger, error) {
	levelStr := cfg.Level
	if levelStr == "" {
		levelStr = "warn"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", cfg.Level)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch cfg.Format {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: cfg.NoColor}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q, expected %s or %s", cfg.Format, FormatConsole, FormatJSON)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
