// Package logging constructs the process-wide loggers.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the component name. Output goes to
// stderr so stdout stays free for exported data: human-readable when
// LONGSIM_ENV=dev, JSON otherwise.
func New(component string) zerolog.Logger {
	env := strings.ToLower(os.Getenv("LONGSIM_ENV"))
	if env == "dev" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", component).Logger()
}

// SetVerbosity maps a -v count to the global level: warnings only by
// default, info at one, debug at two or more.
func SetVerbosity(v int) {
	switch {
	case v <= 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case v == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
