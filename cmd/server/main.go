package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sakescan/backend/config"
	httpDelivery "github.com/sakescan/backend/internal/delivery/http"
	"github.com/sakescan/backend/internal/infrastructure/cache"
	"github.com/sakescan/backend/internal/infrastructure/catalog"
	"github.com/sakescan/backend/internal/infrastructure/firecrawl"
	"github.com/sakescan/backend/internal/infrastructure/images"
	"github.com/sakescan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SakeScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	db, err := catalog.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	catalogRepo := catalog.NewRepository(db)
	log.Printf("Catalog database: %s", cfg.Database.Driver)

	scrapeClient := firecrawl.NewClient(cfg.Firecrawl.APIKey, cfg.Firecrawl.BaseURL)

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		scrapeClient.SetDebug(true)
		log.Printf("Scrape client debug mode enabled")
	}

	if cfg.Firecrawl.APIKey != "" {
		log.Printf("Scrape API configured: %s", cfg.Firecrawl.BaseURL)
	} else {
		log.Printf("WARNING: Scrape API configured: %s (key: NOT CONFIGURED - scrapes will fail!)", cfg.Firecrawl.BaseURL)
	}

	imageStore, err := images.NewStore(cfg.Images.Dir, cfg.Images.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize usecase layer
	scrapeService := usecase.NewScrapeService(scrapeClient, usecase.ScrapeServiceConfig{
		CatalogURL:         cfg.Scrape.CatalogURL,
		WaitFor:            cfg.Firecrawl.WaitFor,
		EnableDebugLogging: debug,
	})

	importService := usecase.NewImportService(catalogRepo, usecase.ImportServiceConfig{
		EnableDebugLogging: debug,
	})

	searchService := usecase.NewSearchService(scrapeClient, memoryCache, usecase.SearchServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: debug,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scrapeService, importService, searchService, imageStore)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
