package db

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const EstablishmentIDKey contextKey = "establishment_id"

// EstablishmentMiddleware resolves the caller's establishment (tenant) and
// stores its id in the request context. The id comes from the JWT claim set
// by the auth middleware, or from the X-Establishment-ID header / query
// parameter as a fallback, in that order.
func EstablishmentMiddleware(defaultEstablishment string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractEstablishmentID(c, defaultEstablishment)
			if raw == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "establishment not resolved")
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid establishment identifier")
			}

			ctx := context.WithValue(c.Request().Context(), EstablishmentIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("establishment_id", id)

			return next(c)
		}
	}
}

func extractEstablishmentID(c echo.Context, defaultEstablishment string) string {
	// 1. Check JWT claim (set by auth middleware)
	if eid, ok := c.Get("jwt_establishment_id").(string); ok && eid != "" {
		return eid
	}

	// 2. Check X-Establishment-ID header
	if eid := c.Request().Header.Get("X-Establishment-ID"); eid != "" {
		return eid
	}

	// 3. Check query parameter
	if eid := c.QueryParam("establishment_id"); eid != "" {
		return eid
	}

	return defaultEstablishment
}

// EstablishmentFromContext retrieves the establishment id from context.
// Returns uuid.Nil when no establishment was resolved.
func EstablishmentFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(EstablishmentIDKey).(uuid.UUID)
	return id
}
