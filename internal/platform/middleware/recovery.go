package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

const maxStackBytes = 4096

// Recovery turns a handler panic into a 500. FHIR routes get an
// OperationOutcome body; everything else goes through echo's error handler.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				stack := debug.Stack()
				if len(stack) > maxStackBytes {
					stack = stack[:maxStackBytes]
				}
				path := c.Request().URL.Path
				logger.Error().
					Str("request_id", RequestIDFrom(c)).
					Str("path", path).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", stack).
					Msg("panic recovered")

				if strings.HasPrefix(path, "/fhir/") && !c.Response().Committed {
					err = c.JSON(http.StatusInternalServerError, fhir.ErrorOutcome("internal server error"))
					return
				}
				err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}()
			return next(c)
		}
	}
}
