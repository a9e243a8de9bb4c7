package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// identityFrom returns the requester resolved by the session middleware.
// Handlers never read an owner id from the request body or query.
func identityFrom(c echo.Context) (domain.Identity, error) {
	id, ok := ports.IdentityFrom(c.Request().Context())
	if !ok || id.UserID <= 0 {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// pathID parses the :id path parameter. Anything that is not a positive
// integer is reported as not found, same as a record owned by someone else.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

type normalizer interface {
	normalize()
}

// bindAndValidate decodes the request into req, normalizes it and runs the
// validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(req)
}
