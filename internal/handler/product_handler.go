package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"farmlink/internal/middleware"
	"farmlink/internal/repository"
	"farmlink/internal/service"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest represents a product creation request. The product is always
// attached to the caller's own farm.
type ProductRequest struct {
	Name          string `json:"name" validate:"required,max=128"`
	Description   string `json:"description"`
	Price         string `json:"price" validate:"required"`
	Unit          string `json:"unit" validate:"max=32"`
	Category      string `json:"category" validate:"max=64"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
	ImageURL      string `json:"image_url" validate:"omitempty,url"`
	IsAvailable   *bool  `json:"is_available"`
}

// ProductUpdateRequest represents a partial product update.
type ProductUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=128"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	Unit          *string `json:"unit" validate:"omitempty,max=32"`
	Category      *string `json:"category" validate:"omitempty,max=64"`
	StockQuantity *int    `json:"stock_quantity" validate:"omitempty,gte=0"`
	ImageURL      *string `json:"image_url" validate:"omitempty,url"`
	IsAvailable   *bool   `json:"is_available"`
}

// parseFilter reads the listing query parameters. Repeated category and
// location parameters accumulate into IN filters.
func parseFilter(c echo.Context) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		Search:     c.QueryParam("search"),
		Categories: c.QueryParams()["category"],
		Locations:  c.QueryParams()["location"],
		SortBy:     c.QueryParam("sort"),
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		filter.MinPrice = &price
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		filter.MaxPrice = &price
	}
	if raw := c.QueryParam("page"); raw != "" {
		filter.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.QueryParam("per_page"); raw != "" {
		filter.PerPage, _ = strconv.Atoi(raw)
	}
	return filter, nil
}

// List godoc
// @Summary Browse available products
// @Tags products
// @Produce json
// @Param search query string false "Match against product name, description or farm name"
// @Param category query []string false "Category filter"
// @Param location query []string false "Farm location filter"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Param sort query string false "newest | price-low | price-high | name"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} service.ProductPage
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	page, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListByFarmer godoc
// @Summary List a farmer's products
// @Tags products
// @Produce json
// @Param id path string true "Farmer ID"
// @Success 200 {array} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /farmers/{id}/products [get]
func (h *ProductHandler) ListByFarmer(c echo.Context) error {
	farmerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid farmer id")
	}

	products, err := h.productService.ListByFarmer(c.Request().Context(), farmerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// TrackView godoc
// @Summary Record a product page view
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/view [post]
func (h *ProductHandler) TrackView(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	views, err := h.productService.TrackView(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"views": views})
}

// Create godoc
// @Summary Create a product on the caller's farm
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	product, err := h.productService.Create(c.Request().Context(), caller, service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         price,
		Unit:          req.Unit,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsAvailable:   req.IsAvailable,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update a product
// @Description Allowed for the owning farmer or an admin.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} model.Product
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := service.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Unit:          req.Unit,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsAvailable:   req.IsAvailable,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		update.Price = &price
	}

	product, err := h.productService.Update(c.Request().Context(), caller, id, update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product
// @Description Allowed for the owning farmer or an admin.
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	caller, err := middleware.Caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.productService.Delete(c.Request().Context(), caller, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
