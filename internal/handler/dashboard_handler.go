package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"farmlink/internal/middleware"
	"farmlink/internal/service"
)

// DashboardHandler serves the farmer dashboard and analytics endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Farmer godoc
// @Summary Get the caller's farmer dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FarmerDashboard
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Farmer(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	dashboard, err := h.dashboardService.Farmer(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// FarmerStats godoc
// @Summary Get aggregated stats for a farm
// @Description Readable only by the owning farmer or an admin.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Farmer ID"
// @Success 200 {object} service.FarmerStats
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/{id}/stats [get]
func (h *DashboardHandler) FarmerStats(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	farmerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}

	stats, err := h.dashboardService.FarmerStats(c.Request().Context(), caller, farmerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Admin godoc
// @Summary Get platform-wide counts
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminDashboard
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	dashboard, err := h.dashboardService.Admin(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
