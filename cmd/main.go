package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/config"
	"invoicedash/internal/handlers"
	"invoicedash/internal/repositories"
	"invoicedash/internal/services"
	"invoicedash/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := common.NewLogger("invoicedash", cfg.LogLevel)

	// Create database connection pool
	pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := cacheSvc.Ping(context.Background()); err != nil {
		appLogger.Warnf("Redis unavailable at %s, route cache disabled until it recovers: %v", cfg.RedisAddr, err)
	}

	// Create repositories
	invoiceRepo := repositories.NewInvoiceRepo(pool)

	// Create services
	invoiceActions := services.NewInvoiceActions(invoiceRepo, cacheSvc, appLogger)
	invoiceListing := services.NewInvoiceListingService(invoiceRepo, cacheSvc, appLogger, cfg.ListingCacheTTL)

	// Create handlers
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceActions, invoiceListing)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(common.ParseLogLevel(cfg.LogLevel))

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	healthHandlers.Register(e)
	invoiceHandlers.Register(e)

	log.Printf("Invoice dashboard server v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
