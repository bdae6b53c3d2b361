// Package logger provides a process-wide structured logger backed by zerolog.
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	instance zerolog.Logger
	once     sync.Once
)

// Init builds the singleton logger. The first call wins; later calls return
// the already-built instance. Outside production a console writer is used
// instead of raw JSON.
func Init(env, level string) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var out = zerolog.New(os.Stdout)
		if env != "production" {
			out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		}

		instance = out.Level(parseLevel(level)).With().Timestamp().Logger()
	})
	return instance
}

// Get returns the singleton logger. Falls back to an info-level JSON logger
// if Init was never called (useful in tests).
func Get() zerolog.Logger {
	return Init("production", "info")
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
