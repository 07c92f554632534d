package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger. format is "text" for a human-friendly
// console writer or "json" for structured output; anything else falls back
// to json. The logger is passed into the ingest pipeline explicitly, never
// installed as a global.
func Setup(format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
