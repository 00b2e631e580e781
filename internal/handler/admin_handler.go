package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmlink/internal/middleware"
	"farmlink/internal/service"
)

// AdminHandler serves the admin-only listing endpoints. The routes sit behind
// the admin role gate; the services check again.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers godoc
// @Summary List all user accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	users, err := h.adminService.ListUsers(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// ListFarmers godoc
// @Summary List all farmer profiles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Farmer
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/farmers [get]
func (h *AdminHandler) ListFarmers(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	farmers, err := h.adminService.ListFarmers(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, farmers)
}

// ListProducts godoc
// @Summary List all products, available or not
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/products [get]
func (h *AdminHandler) ListProducts(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	products, err := h.adminService.ListProducts(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// ListInquiries godoc
// @Summary List all inquiries platform-wide
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Inquiry
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/inquiries [get]
func (h *AdminHandler) ListInquiries(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	inquiries, err := h.adminService.ListInquiries(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, inquiries)
}
