package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "chatlab-server"

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the global logger. Before configuration is loaded it
// defaults to console output at info level so startup errors stay readable.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		globalLogger = build("console").Level(zerolog.InfoLevel)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return globalLogger
}

// New reconfigures the global logger from LOG_LEVEL and LOG_FORMAT values.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "json", "console":
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = build(strings.ToLower(format)).Level(lvl)
	return globalLogger, nil
}

func build(format string) zerolog.Logger {
	var out zerolog.Logger
	if format == "json" {
		out = zerolog.New(os.Stdout)
	} else {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	return out.With().Timestamp().Str("service", serviceName).Logger()
}
