// Package main is the entry point for the fieldstock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fieldstock/internal/domain/alerts"
	"fieldstock/internal/domain/auth"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/internal/domain/catalogs/location"
	"fieldstock/internal/domain/ledger"
	"fieldstock/internal/domain/stock"
	"fieldstock/internal/domain/transfer"
	v1 "fieldstock/internal/infrastructure/http/v1"
	"fieldstock/internal/infrastructure/storage/postgres"
	"fieldstock/internal/infrastructure/storage/postgres/alert_repo"
	"fieldstock/internal/infrastructure/storage/postgres/catalog_repo"
	"fieldstock/internal/infrastructure/storage/postgres/ledger_repo"
	"fieldstock/internal/infrastructure/storage/postgres/stock_repo"
	"fieldstock/internal/infrastructure/storage/postgres/workorder_repo"
	"fieldstock/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting fieldstock server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := catalog_repo.NewItemRepo(txManager)
	locationRepo := catalog_repo.NewLocationRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	stockRepo := stock_repo.NewStockRepo(txManager)
	refsRepo := workorder_repo.NewRefsRepo(txManager)
	alertRepo := alert_repo.NewAlertRepo(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Domain services ---
	prober := stock.NewProber(stockRepo)
	if ttl := getEnvDuration("STOCK_PROBE_TTL", 0); ttl > 0 {
		prober.WithTTL(ttl)
	}
	stockService := stock.NewService(stockRepo, stockRepo, movementRepo, itemRepo, locationRepo, prober)

	alertService := alerts.NewService(alertRepo, stockService, itemRepo)
	ledgerService := ledger.NewService(movementRepo, alertService, auditService)
	stockService.WithReplayer(ledgerService)
	transferService := transfer.NewService(movementRepo, stockService, txManager, alertService, auditService)

	itemService := item.NewService(itemRepo, []item.Dependency{
		{Category: item.CategoryStockRecords, Checker: stockRepo, Purger: stockRepo},
		{Category: item.CategoryMovements, Checker: movementRepo, Purger: movementRepo},
		{Category: item.CategoryWorkOrderRefs, Checker: refsRepo, Purger: refsRepo, Detailer: refsRepo},
	}, txManager, auditService)
	locationService := location.NewService(locationRepo, txManager)

	// --- JWT validation ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log,
		JWTValidator: jwtService,
		Items:        itemService,
		Locations:    locationService,
		Ledger:       ledgerService,
		Stock:        stockService,
		Transfers:    transferService,
		Alerts:       alertService,
		History:      auditService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
