// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points log.Logger at a console writer in development and at JSON on
// stderr otherwise, filtered by level.
func Setup(env, level string) {
	var w io.Writer = os.Stderr
	if env != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
