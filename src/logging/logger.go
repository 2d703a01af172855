package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // json, pretty
	Output io.Writer // defaults to stdout
}

// Setup initializes the global logger
func Setup(cfg Config) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "pretty" {
		// Colors only on stdout
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: cfg.Output != nil}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// ParseLevel reads a LOG_LEVEL value; empty or unknown values mean info
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// NewLogger creates a component-specific logger
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForRole tags every event of logger with the role a request runs as
func ForRole(logger zerolog.Logger, role string) zerolog.Logger {
	return logger.With().Str("role", role).Logger()
}
