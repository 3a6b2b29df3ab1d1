// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging constructs the zerolog logger shared by the CLI and the
// pipeline driver.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger at the given level. Format "console" produces
// human-readable output; anything else produces JSON lines. Unknown
// levels fall back to info. Output goes to stderr so the review document
// path on stdout stays clean for scripting.
func New(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if strings.ToLower(format) == "json" {
		return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
