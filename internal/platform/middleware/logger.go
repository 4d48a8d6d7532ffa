// Package middleware holds the echo middleware shared by the trigger server.
package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ftrs/dos-migration/internal/platform/auth"
)

// Logger writes one line per request. Probe routes log at debug so that
// scrapes and health checks stay out of the info stream.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			evt := levelFor(logger, status, auth.IsPublicPath(c.Path()))
			if err != nil && status >= 400 {
				evt = evt.Err(err)
			}
			if sub := auth.SubjectFromContext(c.Request().Context()); sub != "" {
				evt = evt.Str("subject", sub)
			}

			req := c.Request()
			evt.
				Str("request_id", RequestIDFrom(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")
			return err
		}
	}
}

func levelFor(logger zerolog.Logger, status int, probe bool) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Error()
	case status >= 400:
		return logger.Warn()
	case probe:
		return logger.Debug()
	}
	return logger.Info()
}
