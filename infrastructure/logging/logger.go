// Package logging configures the process-wide zerolog logger
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and writes human-readable logs to w
// (stderr when w is nil)
func Init(debug bool, w io.Writer) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// For returns a logger tagged with component
func For(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
