package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"farmlink/internal/middleware"
	"farmlink/internal/service"
)

// FarmerHandler handles farmer profile endpoints.
type FarmerHandler struct {
	farmerService service.FarmerService
}

// NewFarmerHandler creates a new farmer handler.
func NewFarmerHandler(farmerService service.FarmerService) *FarmerHandler {
	return &FarmerHandler{farmerService: farmerService}
}

// FarmerRequest represents the mutable fields of a farmer profile.
type FarmerRequest struct {
	FarmName        string `json:"farm_name" validate:"required,max=128"`
	FirstName       string `json:"first_name" validate:"max=64"`
	LastName        string `json:"last_name" validate:"max=64"`
	Location        string `json:"location" validate:"max=128"`
	Phone           string `json:"phone" validate:"max=32"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url"`
}

func (r FarmerRequest) toInput() service.FarmerInput {
	return service.FarmerInput{
		FarmName:        r.FarmName,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Location:        r.Location,
		Phone:           r.Phone,
		Description:     r.Description,
		ProfileImageURL: r.ProfileImageURL,
	}
}

// List godoc
// @Summary List all farmer profiles
// @Tags farmers
// @Produce json
// @Success 200 {array} model.Farmer
// @Router /farmers [get]
func (h *FarmerHandler) List(c echo.Context) error {
	farmers, err := h.farmerService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, farmers)
}

// Get godoc
// @Summary Get a farmer profile by id
// @Tags farmers
// @Produce json
// @Param id path string true "Farmer ID"
// @Success 200 {object} model.Farmer
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/{id} [get]
func (h *FarmerHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}

	farmer, err := h.farmerService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, farmer)
}

// Create godoc
// @Summary Create the authenticated user's farmer profile
// @Description One profile per user; the account is promoted to the farmer role.
// @Tags farmers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FarmerRequest true "Profile data"
// @Success 201 {object} model.Farmer
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /farmers [post]
func (h *FarmerHandler) Create(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	var req FarmerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	farmer, err := h.farmerService.Create(c.Request().Context(), caller.ID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, farmer)
}

// GetOwn godoc
// @Summary Get the authenticated user's farmer profile
// @Tags farmers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Farmer
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/me [get]
func (h *FarmerHandler) GetOwn(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	farmer, err := h.farmerService.GetByUser(c.Request().Context(), caller.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, farmer)
}

// UpdateOwn godoc
// @Summary Update the authenticated user's farmer profile
// @Tags farmers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FarmerRequest true "Profile data"
// @Success 200 {object} model.Farmer
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/me [put]
func (h *FarmerHandler) UpdateOwn(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	var req FarmerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	farmer, err := h.farmerService.UpdateOwn(c.Request().Context(), caller.ID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, farmer)
}

// Update godoc
// @Summary Update a farmer profile by id
// @Description Allowed for the owning user or an admin.
// @Tags farmers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Farmer ID"
// @Param request body FarmerRequest true "Profile data"
// @Success 200 {object} model.Farmer
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/{id} [put]
func (h *FarmerHandler) Update(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}

	var req FarmerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	farmer, err := h.farmerService.Update(c.Request().Context(), caller, id, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, farmer)
}

// Delete godoc
// @Summary Delete a farmer profile by id
// @Description Allowed for the owning user or an admin. Products and inquiries go with it.
// @Tags farmers
// @Security BearerAuth
// @Param id path string true "Farmer ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/{id} [delete]
func (h *FarmerHandler) Delete(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}

	if err := h.farmerService.Delete(c.Request().Context(), caller, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
