// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bevora/distops/internal/api"
	"github.com/bevora/distops/internal/cache"
	"github.com/bevora/distops/internal/config"
	"github.com/bevora/distops/internal/engine"
	"github.com/bevora/distops/internal/notify"
	"github.com/bevora/distops/internal/repository"
	"github.com/bevora/distops/internal/repository/postgres"
	"github.com/bevora/distops/internal/service"
	"github.com/bevora/distops/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize cache
	insightCache, err := cache.NewInsightCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Insight cache unavailable, running without cache")
		insightCache = cache.NewNoopInsightCache()
	}

	// Margin alerts go to redis pub/sub when enabled, the log otherwise.
	var alertChannel notify.Channel = notify.NewLogChannel()
	if cfg.Notify.Enabled {
		client, err := cache.NewClient(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Alert channel unavailable, falling back to log")
		} else {
			alertChannel = notify.NewRedisChannel(client, cfg.Notify.Channel)
		}
	}

	// Initialize engine and services
	eng := engine.New(engine.Policy{
		LookbackDays:     cfg.Engine.LookbackDays,
		MinMarginPercent: cfg.Engine.MinMarginPercent,
	})

	salesRepo := repository.NewSalesRepository(db.DB)
	inventoryRepo := repository.NewInventoryRepository(db.DB)

	insightService := service.NewInsightService(
		salesRepo,
		inventoryRepo,
		eng,
		insightCache,
		cfg.Engine.CatalogCap,
		cfg.Engine.InsightWorkerLimit,
	)
	marginService := service.NewMarginService(eng, alertChannel)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		InsightService: insightService,
		MarginService:  marginService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
