package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger logs each HTTP request as one JSON line on the global logger,
// which already stamps "ts" (see logger.Init).
func Logger() fiber.Handler {
	return logRequests(log.Logger, nil)
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
//
// Fields: request_id, method, path, status, latency (ms, float), ts, and
// trace_id when the request is traced. Handlers get a logger carrying the
// same request_id through zerolog.Ctx(c.UserContext()).
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return logRequests(zerolog.New(w), loc)
}

func logRequests(base zerolog.Logger, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		lc := base.With().Str("request_id", RequestIDFromCtx(c))
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			lc = lc.Str("trace_id", sc.TraceID().String())
		}
		reqLog := lc.Logger()
		c.SetUserContext(reqLog.WithContext(c.UserContext()))

		err := c.Next()

		// Let the error handler settle the final status before reading it.
		status := c.Response().StatusCode()
		if err != nil {
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			status = c.Response().StatusCode()
		}

		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000)
		if loc != nil {
			ev = ev.Str("ts", time.Now().In(loc).Format(time.RFC3339Nano))
		}
		ev.Send()

		return nil
	}
}
