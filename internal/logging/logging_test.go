package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConsoleMode(t *testing.T) {
	t.Setenv("LONGSIM_ENV", "dev")
	l := New("test")
	l.Info().Msg("console mode")
}

func TestNewJSONMode(t *testing.T) {
	t.Setenv("LONGSIM_ENV", "")
	l := New("test")
	l.Info().Int("k", 1).Msg("json mode")
}

func TestSetVerbosity(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.WarnLevel)

	SetVerbosity(0)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetVerbosity(1)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetVerbosity(2)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
