package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blooddb/donation-api/internal/core/ports"
)

// BloodRequestHandler handles HTTP requests for blood requests.
type BloodRequestHandler struct {
	service ports.BloodRequestService
}

func NewBloodRequestHandler(service ports.BloodRequestService) *BloodRequestHandler {
	return &BloodRequestHandler{service: service}
}

func toBloodRequestInput(req bloodRequestRequest) ports.BloodRequestInput {
	return ports.BloodRequestInput{
		Name:       req.Name,
		BloodGroup: req.BloodGroup,
		City:       req.City,
		Reason:     req.Reason,
		Phone:      req.Phone,
		Status:     req.Status,
	}
}

// Create handles POST /api/requests.
//
// @Summary      Submit a blood request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      bloodRequestRequest  true  "Request details"
// @Success      201   {object}  requestCreatedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/requests [post]
func (h *BloodRequestHandler) Create(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req bloodRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), owner, toBloodRequestInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, requestCreatedResponse{Success: true, Message: "Blood request submitted", RequestID: id})
}

// ListMine handles GET /api/requests/my.
//
// @Summary      List own blood requests
// @Tags         requests
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  requestListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/requests/my [get]
func (h *BloodRequestHandler) ListMine(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}

	requests, err := h.service.ListMine(c.Request().Context(), owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requestListResponse{Success: true, Count: len(requests), Requests: requests})
}

// Get handles GET /api/requests/:id.
//
// @Summary      Get an owned blood request
// @Tags         requests
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  requestResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/requests/{id} [get]
func (h *BloodRequestHandler) Get(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	br, err := h.service.Get(c.Request().Context(), owner, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requestResponse{Success: true, Request: br})
}

// Update handles PUT /api/requests/:id.
//
// @Summary      Update an owned blood request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      int                  true  "Request id"
// @Param        body  body      bloodRequestRequest  true  "Request details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/requests/{id} [put]
func (h *BloodRequestHandler) Update(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req bloodRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), owner, id, toBloodRequestInput(req)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Blood request updated"})
}

// Delete handles DELETE /api/requests/:id.
//
// @Summary      Delete an owned blood request
// @Tags         requests
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/requests/{id} [delete]
func (h *BloodRequestHandler) Delete(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), owner, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Blood request deleted"})
}

// ListAll handles GET /get-requests. Public, newest first.
//
// @Summary      List all blood requests
// @Tags         public
// @Produce      json
// @Success      200  {object}  requestListResponse
// @Router       /get-requests [get]
func (h *BloodRequestHandler) ListAll(c echo.Context) error {
	requests, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requestListResponse{Success: true, Count: len(requests), Requests: requests})
}
