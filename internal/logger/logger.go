package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger: JSON lines on w, timestamps under "ts"
// rendered in loc (UTC when nil). An unknown level falls back to info and is reported.
func Init(w io.Writer, lvl string, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	level, err := zerolog.ParseLevel(strings.ToLower(lvl))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(loc)
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	if err != nil {
		log.Warn().Str("log_level", lvl).Msg("unknown log level, using info")
	}
}
