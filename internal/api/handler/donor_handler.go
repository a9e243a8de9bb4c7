package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

// DonorHandler handles HTTP requests for donor records.
type DonorHandler struct {
	service ports.DonorService
}

func NewDonorHandler(service ports.DonorService) *DonorHandler {
	return &DonorHandler{service: service}
}

func toDonorInput(req donorRequest) ports.DonorInput {
	return ports.DonorInput{
		Name:       req.Name,
		Age:        req.Age,
		Gender:     req.Gender,
		BloodGroup: req.BloodGroup,
		City:       req.City,
		Phone:      req.Phone,
	}
}

// Create handles POST /api/donors.
//
// @Summary      Register a donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      donorRequest  true  "Donor details"
// @Success      201   {object}  donorCreatedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/donors [post]
func (h *DonorHandler) Create(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req donorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), owner, toDonorInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, donorCreatedResponse{Success: true, Message: "Donor registered", DonorID: id})
}

// ListMine handles GET /api/donors/my.
//
// @Summary      List own donors
// @Tags         donors
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  donorListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/donors/my [get]
func (h *DonorHandler) ListMine(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}

	donors, err := h.service.ListMine(c.Request().Context(), owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, donorListResponse{Success: true, Count: len(donors), Donors: donors})
}

// Get handles GET /api/donors/:id.
//
// @Summary      Get an owned donor
// @Tags         donors
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Donor id"
// @Success      200  {object}  donorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/donors/{id} [get]
func (h *DonorHandler) Get(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	donor, err := h.service.Get(c.Request().Context(), owner, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, donorResponse{Success: true, Donor: donor})
}

// Update handles PUT /api/donors/:id.
//
// @Summary      Update an owned donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      int           true  "Donor id"
// @Param        body  body      donorRequest  true  "Donor details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/donors/{id} [put]
func (h *DonorHandler) Update(c echo.Context) error {
	owner, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req donorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), owner, id, toDonorInput(req)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Donor updated"})
}

// Delete handles DELETE /api/donors/:id.
//
// @Summary      Delete an owned donor
// @Tags         donors
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Donor id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/donors/{id} [delete]
func (h *DonorHandler) Delete(c echo.Context) error {
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

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Donor deleted"})
}

// Search handles GET /search-donors. Public.
//
// @Summary      Search donors
// @Tags         public
// @Produce      json
// @Param        blood_group  query     string  false  "Exact blood group, e.g. O+"
// @Param        city         query     string  false  "Case-insensitive partial city"
// @Success      200          {object}  donorListResponse
// @Failure      400          {object}  errorResponse
// @Router       /search-donors [get]
func (h *DonorHandler) Search(c echo.Context) error {
	var q donorSearchQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	donors, err := h.service.Search(c.Request().Context(), domain.DonorSearch{
		BloodGroup: q.BloodGroup,
		City:       q.City,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, donorListResponse{Success: true, Count: len(donors), Donors: donors})
}
