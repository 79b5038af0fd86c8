// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/domain/alerts"
	"fieldstock/internal/domain/audit"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/internal/domain/catalogs/location"
	"fieldstock/internal/domain/ledger"
	"fieldstock/internal/domain/stock"
	"fieldstock/internal/domain/transfer"
	"fieldstock/internal/infrastructure/http/v1/handlers"
	"fieldstock/internal/infrastructure/http/v1/middleware"
	"fieldstock/internal/infrastructure/storage/postgres"
	"fieldstock/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool         *postgres.Pool
	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator

	Items     *item.Service
	Locations *location.Service
	Ledger    *ledger.Service
	Stock     *stock.Service
	Transfers *transfer.Service
	Alerts    *alerts.Service
	History   audit.HistoryReader
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints, no auth
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	itemHandler := handlers.NewItemHandler(base, cfg.Items, cfg.History)
	locationHandler := handlers.NewLocationHandler(base, cfg.Locations)
	movementHandler := handlers.NewMovementHandler(base, cfg.Ledger)
	stockHandler := handlers.NewStockHandler(base, cfg.Stock)
	transferHandler := handlers.NewTransferHandler(base, cfg.Transfers)
	alertHandler := handlers.NewAlertHandler(base, cfg.Alerts)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	{
		items := api.Group("/items")
		{
			items.GET("", itemHandler.List)
			items.POST("", itemHandler.Create)
			items.GET("/categories", itemHandler.Categories)
			items.GET("/:id", itemHandler.Get)
			items.PUT("/:id", itemHandler.Update)
			items.GET("/:id/dependencies", itemHandler.Dependencies)
			items.GET("/:id/history", itemHandler.History)
			items.DELETE("/:id", middleware.RequireRole("manager"), itemHandler.Delete)
		}

		locations := api.Group("/locations")
		{
			locations.GET("", locationHandler.List)
			locations.POST("", locationHandler.Create)
			locations.GET("/:id", locationHandler.Get)
			locations.PUT("/:id", locationHandler.Update)
			locations.DELETE("/:id", middleware.RequireRole("manager"), locationHandler.Delete)
		}

		movements := api.Group("/movements")
		{
			movements.GET("", movementHandler.List)
			movements.POST("", movementHandler.Create)
			movements.POST("/release", movementHandler.ReleaseAllocation)
		}

		stockRoutes := api.Group("/stock")
		{
			stockRoutes.GET("", stockHandler.Summaries)
			stockRoutes.GET("/diagnostics", stockHandler.Diagnostics)
			stockRoutes.GET("/:itemId", stockHandler.ItemDetail)
		}

		api.POST("/transfers", transferHandler.Create)
		api.GET("/alerts", alertHandler.List)
	}

	return router
}
