package common

import (
	"fmt"
	"io"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the process logger. format is "console" or "json".
func Logger(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}

	switch format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// StdLogger adapts l for APIs that want a *log.Logger.
func StdLogger(l zerolog.Logger, component string) *stdlog.Logger {
	return stdlog.New(l.With().Str("component", component).Logger(), "", 0)
}
