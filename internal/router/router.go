package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"farmlink/internal/config"
	"farmlink/internal/handler"
	"farmlink/internal/middleware"
)

// Register wires routes and middleware. Public reads and creates stay outside
// the JWT group; everything role- or ownership-gated sits behind it; the
// admin group adds a role gate on top.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	farmerHandler *handler.FarmerHandler,
	productHandler *handler.ProductHandler,
	inquiryHandler *handler.InquiryHandler,
	dashboardHandler *handler.DashboardHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.GET("/farmers", farmerHandler.List)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.POST("/products/:id/view", productHandler.TrackView)
	api.POST("/inquiries", inquiryHandler.Create)

	// Secured routes (require a bearer token)
	secured := api.Group("", middleware.JWT(cfg.JWTSecret))

	secured.GET("/me", authHandler.Me)
	secured.PUT("/settings", authHandler.UpdateSettings)

	secured.POST("/farmers", farmerHandler.Create)
	secured.GET("/farmers/me", farmerHandler.GetOwn)
	secured.PUT("/farmers/me", farmerHandler.UpdateOwn)

	secured.POST("/products", productHandler.Create)
	secured.PUT("/products/:id", productHandler.Update)
	secured.DELETE("/products/:id", productHandler.Delete)

	secured.GET("/farmers/:id/inquiries", inquiryHandler.ListForFarmer)
	secured.PUT("/inquiries/:id", inquiryHandler.UpdateStatus)
	secured.DELETE("/inquiries/:id", inquiryHandler.Delete)

	secured.GET("/dashboard", dashboardHandler.Farmer)
	secured.GET("/farmers/:id/stats", dashboardHandler.FarmerStats)

	// Static /farmers/me wins over /farmers/:id in echo's router.
	api.GET("/farmers/:id", farmerHandler.Get)
	api.GET("/farmers/:id/products", productHandler.ListByFarmer)
	secured.PUT("/farmers/:id", farmerHandler.Update)
	secured.DELETE("/farmers/:id", farmerHandler.Delete)

	// Admin routes
	admin := api.Group("/admin", middleware.JWT(cfg.JWTSecret), middleware.RequireAdmin())
	admin.GET("/dashboard", dashboardHandler.Admin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/farmers", adminHandler.ListFarmers)
	admin.GET("/products", adminHandler.ListProducts)
	admin.GET("/inquiries", adminHandler.ListInquiries)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
