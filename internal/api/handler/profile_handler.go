package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blooddb/donation-api/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get returns the requester's account and resource counts.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}

	user, stats, err := h.service.Get(c.Request().Context(), owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Success: true,
		User:    user,
		Stats:   profileStats{Donors: stats.Donors, Requests: stats.Requests},
	})
}

// Update changes the requester's full name, email and phone.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  profileUpdateResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), owner, ports.ProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileUpdateResponse{Success: true, Message: "Profile updated", User: user})
}
