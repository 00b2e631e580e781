package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"farmlink/internal/auth"
	"farmlink/internal/authz"
	"farmlink/internal/cache"
	"farmlink/internal/config"
	"farmlink/internal/db"
	"farmlink/internal/handler"
	"farmlink/internal/model"
	"farmlink/internal/notify"
	"farmlink/internal/repository"
	"farmlink/internal/router"
	"farmlink/internal/service"
)

// @title FarmLink API
// @version 1.0
// @description Farmer marketplace API: farmer profiles, product listings, customer inquiries and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logger.Info("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.Inquiry{},
			&model.Product{},
			&model.Farmer{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logger.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Farmer{},
		&model.Product{},
		&model.Inquiry{},
	); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	notifier := notify.NewAMQPNotifier(cfg.AMQPURL, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	farmerRepo := repository.NewFarmerRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	inquiryRepo := repository.NewInquiryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// Ownership resolution and the access policy are shared by every service.
	resolver := authz.NewResolver(farmerRepo, productRepo, inquiryRepo)
	policy := authz.NewEngine(resolver)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, hasher, notifier, logger)
	farmerService := service.NewFarmerService(farmerRepo, policy)
	productService := service.NewProductService(productRepo, farmerRepo, policy, cacheClient)
	inquiryService := service.NewInquiryService(inquiryRepo, farmerRepo, productRepo, policy, notifier, logger)
	dashboardService := service.NewDashboardService(userRepo, farmerRepo, productRepo, inquiryRepo, policy)
	adminService := service.NewAdminService(userRepo, farmerRepo, productRepo, inquiryRepo, policy)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	farmerHandler := handler.NewFarmerHandler(farmerService)
	productHandler := handler.NewProductHandler(productService)
	inquiryHandler := handler.NewInquiryHandler(inquiryService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	adminHandler := handler.NewAdminHandler(adminService)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		farmerHandler,
		productHandler,
		inquiryHandler,
		dashboardHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	logger.Info("starting server", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}
