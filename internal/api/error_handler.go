package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blooddb/donation-api/internal/core/domain"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgUnauthenticated    = "Please login to continue"
	msgNotFound           = "Not found"
	msgServerError        = "Server error. Please try again."
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (404 from router, 405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, msgNotFound
		}
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
			return he.Code, msgServerError
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, domain.ErrConflict):
		// Conflicts are reported as a plain bad request.
		return http.StatusBadRequest, conflictMessage(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, msgUnauthenticated
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	}

	logUnexpected(log, c, err)
	return http.StatusInternalServerError, msgServerError
}

func conflictMessage(err error) string {
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return (&domain.ConflictError{}).Error()
}

// logUnexpected records the real cause; the client only sees a generic message.
func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
