package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verifiedMarket/app/echo-server/router"
	"verifiedMarket/business/admin"
	"verifiedMarket/business/buyer"
	"verifiedMarket/business/product"
	"verifiedMarket/business/review"
	"verifiedMarket/business/seller"
	"verifiedMarket/business/session"
	"verifiedMarket/internal/middleware"
	psqlRepo "verifiedMarket/internal/repository/postgres"
	redisRepo "verifiedMarket/internal/repository/redis"
	"verifiedMarket/internal/rest"
	"verifiedMarket/pkg/config"
	"verifiedMarket/pkg/database"
	redisClient "verifiedMarket/pkg/database/redis"
	"verifiedMarket/pkg/logger"
	"verifiedMarket/pkg/metrics"
	"verifiedMarket/pkg/storage"
	"verifiedMarket/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitWithLevel(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL())

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Token store is optional; without it tokens are valid until they expire
	var tokenStore *redisRepo.TokenRepository
	if cfg.Redis.Enabled() {
		client, err := redisClient.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisClient.CloseRedisClient(client)

		tokenStore = redisRepo.NewTokenRepository(client)
		logger.Info("Redis token store enabled", "host", cfg.Redis.RedisHost)
	}

	images, err := storage.OpenImageStore(context.Background(), cfg.Storage.BucketURL)
	if err != nil {
		logger.Fatal("Failed to open image storage", "url", cfg.Storage.BucketURL, "error", err)
	}
	defer images.Close()

	// Init validate
	validate := utils.NewValidator()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	sellerRepo := psqlRepo.NewSellerRepository(db)
	buyerRepo := psqlRepo.NewBuyerRepository(db)
	adminRepo := psqlRepo.NewAdminRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)

	// Init service
	var sessionService = session.NewSessionService(nil)
	var tokenValidator middleware.TokenValidator
	if tokenStore != nil {
		sessionService = session.NewSessionService(tokenStore)
		tokenValidator = tokenStore
	}

	sellerService := seller.NewSellerService(userRepo, sellerRepo, sessionService, seller.NoopHook{}, validate)
	productService := product.NewProductService(productRepo, sellerRepo, images)
	buyerService := buyer.NewBuyerService(userRepo, buyerRepo, sessionService, validate)
	adminService := admin.NewAdminService(userRepo, adminRepo, sessionService)
	reviewService := review.NewReviewService(reviewRepo, sellerRepo, buyerRepo, validate)

	if cfg.Admin.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := adminService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.FullName)
		cancel()
		if err != nil {
			logger.Fatal("Failed to bootstrap admin", "username", cfg.Admin.Username, "error", err)
		}
	}

	// Init handler
	handlers := router.Handlers{
		Seller:  rest.NewSellerHandler(sellerService),
		Product: rest.NewProductHandler(productService),
		Buyer:   rest.NewBuyerHandler(buyerService),
		Review:  rest.NewReviewHandler(reviewService),
		Admin:   rest.NewAdminHandler(adminService, sellerService, reviewService),
		Auth:    rest.NewAuthHandler(sessionService),
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	metrics.Init()

	// Global middleware
	e.Pre(echomiddleware.AddTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger())

	guards := router.Guards{
		AuthRequired: middleware.AuthMiddleware(tokenValidator),
		OptionalAuth: middleware.OptionalAuth(tokenValidator),
		AdminOnly:    middleware.AdminOnly(adminService),
	}
	if cfg.Server.RateLimitPerSecond > 0 {
		guards.RateLimit = echomiddleware.RateLimiter(
			echomiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimitPerSecond)),
		)
	}

	// Setup routes
	router.Setup(e, handlers, guards)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Server stopped")
}
