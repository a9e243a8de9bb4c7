package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// RequireSession resolves the session cookie and injects the requester's
// identity into the request context. Requests without a live session are
// rejected with domain.ErrUnauthenticated before next runs.
func RequireSession(resolver ports.SessionResolver, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return domain.ErrUnauthenticated
			}

			id, err := resolver.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Error().Err(err).Str("path", c.Path()).Msg("session resolve failed")
				return fmt.Errorf("require session: %w", err)
			}
			if id == nil {
				return domain.ErrUnauthenticated
			}

			c.SetRequest(c.Request().WithContext(ports.WithIdentity(c.Request().Context(), *id)))
			return next(c)
		}
	}
}
