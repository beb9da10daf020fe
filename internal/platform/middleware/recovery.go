package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery converts panics into 500 responses. The panic value and stack go
// to the log; the client sees only a generic message.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					evt := logger.Error().
						Str("method", c.Request().Method).
						Str("path", c.Request().URL.Path).
						Interface("panic", r)
					if rid, ok := c.Get("request_id").(string); ok {
						evt = evt.Str("request_id", rid)
					}
					evt.Bytes("stack", debug.Stack()).Msg("panic recovered")

					err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}
