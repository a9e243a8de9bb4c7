package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blooddb/donation-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: "Registration successful",
		UserID:  id,
	})
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.set(c, res.Token, res.Session.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		User:    res.User,
	})
}

// Logout destroys the current session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), h.cookie.token(c)); err != nil {
		return err
	}

	h.cookie.clear(c)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

// Check reports whether the request carries a live session.
//
// @Summary      Check session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  checkResponse
// @Router       /api/auth/check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	id := h.authService.Check(c.Request().Context(), h.cookie.token(c))
	if id == nil {
		return c.JSON(http.StatusOK, checkResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, checkResponse{Authenticated: true, Identity: id, User: id})
}
