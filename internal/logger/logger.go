// Package logger configures the zerolog logger shared by all photobooth
// components.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu      sync.Mutex
	writers []io.Writer
)

// New returns a sub-logger tagged with the given component name
func New(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// SetDebug switches the global level between debug and info
func SetDebug(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// AddWriter tees all subsequent log output into w.
// Loggers created with New before the call keep their old output.
func AddWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	writers = append(writers, w)
	log.Logger = log.Output(zerolog.MultiLevelWriter(append([]io.Writer{console()}, writers...)...))
}

func console() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

func init() {
	_, debug := os.LookupEnv("DEBUG")
	SetDebug(debug)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(console())
}
