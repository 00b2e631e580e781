package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"farmlink/internal/middleware"
	"farmlink/internal/model"
	"farmlink/internal/service"
)

// InquiryHandler handles customer inquiry endpoints.
type InquiryHandler struct {
	inquiryService service.InquiryService
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(inquiryService service.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

// InquiryRequest represents a customer inquiry submission. No account is
// required; contact details travel in the body.
type InquiryRequest struct {
	FarmerID      string `json:"farmer_id" validate:"required,uuid4"`
	ProductID     string `json:"product_id" validate:"omitempty,uuid4"`
	CustomerName  string `json:"customer_name" validate:"required,max=128"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"max=32"`
	Message       string `json:"message" validate:"required"`
}

// InquiryStatusRequest represents an inquiry status change.
type InquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read responded archived"`
}

// Create godoc
// @Summary Submit an inquiry to a farmer
// @Tags inquiries
// @Accept json
// @Produce json
// @Param request body InquiryRequest true "Inquiry data"
// @Success 201 {object} model.Inquiry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inquiries [post]
func (h *InquiryHandler) Create(c echo.Context) error {
	var req InquiryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	farmerID, err := uuid.Parse(req.FarmerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}
	input := service.InquiryInput{
		FarmerID:      farmerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Message:       req.Message,
	}
	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		input.ProductID = &productID
	}

	inquiry, err := h.inquiryService.Create(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, inquiry)
}

// ListForFarmer godoc
// @Summary List inquiries addressed to a farmer
// @Description Readable only by the owning farmer or an admin.
// @Tags inquiries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Farmer ID"
// @Success 200 {array} model.Inquiry
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/{id}/inquiries [get]
func (h *InquiryHandler) ListForFarmer(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	farmerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}

	inquiries, err := h.inquiryService.ListForFarmer(c.Request().Context(), caller, farmerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, inquiries)
}

// UpdateStatus godoc
// @Summary Change an inquiry's status
// @Description Allowed for the owning farmer or an admin.
// @Tags inquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Inquiry ID"
// @Param request body InquiryStatusRequest true "New status"
// @Success 200 {object} model.Inquiry
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inquiries/{id} [put]
func (h *InquiryHandler) UpdateStatus(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid inquiry id")
	}

	var req InquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request().Context(), caller, id, model.InquiryStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, inquiry)
}

// Delete godoc
// @Summary Delete an inquiry
// @Description Allowed for the owning farmer or an admin.
// @Tags inquiries
// @Security BearerAuth
// @Param id path string true "Inquiry ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inquiries/{id} [delete]
func (h *InquiryHandler) Delete(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid inquiry id")
	}

	if err := h.inquiryService.Delete(c.Request().Context(), caller, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
