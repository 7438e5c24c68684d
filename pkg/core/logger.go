package core

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns a timestamped logger at the given level. An empty or
// unknown level falls back to info. A nil writer means stderr.
func NewLogger(w io.Writer, level string, console bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
