package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger tagged with the service name. Debug mode writes
// human-readable console lines at debug level; otherwise lines are JSON.
func New(out io.Writer, serviceName string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("| %-6s|", i)
			},
			FormatFieldName: func(i interface{}) string {
				return fmt.Sprintf("%s:", i)
			},
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Init replaces the global logger used by the server binary.
func Init(serviceName string, debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"

	log.Logger = New(os.Stdout, serviceName, debug)
}

// Get returns the global logger set by Init.
func Get() zerolog.Logger {
	return log.Logger
}
