// cmd/ingest/main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/bevora/distops/internal/cache"
	"github.com/bevora/distops/internal/config"
	"github.com/bevora/distops/internal/ingest"
	"github.com/bevora/distops/internal/repository/postgres"
	"github.com/bevora/distops/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize object storage client
	store, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Stale cached summaries are invalidated after each run.
	insightCache, err := cache.NewInsightCache(cfg.Cache)
	if err != nil {
		log.Printf("warning: insight cache unavailable, skipping invalidation: %v", err)
		insightCache = cache.NewNoopInsightCache()
	}

	// Initialize ingest service
	loader := ingest.NewLoader(db)
	ingestService := ingest.NewService(store, loader, insightCache)

	// Register routes
	r := mux.NewRouter()
	ingestHandler := ingest.NewHandler(ingestService)
	ingestHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
