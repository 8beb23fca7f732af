package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates a console logger writing to stdout
func New(level string) zerolog.Logger {
	return NewWithWriter(level, "console", os.Stdout)
}

// NewWithWriter creates a logger with the given output format.
// Format "json" writes raw zerolog events, anything else a ConsoleWriter.
func NewWithWriter(level, format string, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()
}

// parseLogLevel parses log level string to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
