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

	"loan-calculator/internal/api/handlers"
	"loan-calculator/internal/api/middleware"
	"loan-calculator/internal/config"
	"loan-calculator/internal/data"
	"loan-calculator/internal/loan"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit.Capacity > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.Refill)
		defer limiter.Stop()
	}

	store, closeStore := newSnapshotStore(cfg.Snapshot)
	defer closeStore()
	seedSnapshot(store, cfg.MarketData.SnapshotFile)

	ctx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()

	client := data.NewCoinGeckoClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.Assets)
	client.VsCurrency = cfg.MarketData.VsCurrency
	client.Client.Timeout = cfg.MarketData.Timeout
	data.NewFeed(client).Start(ctx, data.StorePublisher(store, cfg.MarketData.Timeout))

	// Initialize handlers
	engine := loan.New()
	defaults := cfg.Calculator.Defaults()
	quoteHandler := handlers.NewQuoteHandler(engine, store, defaults, cfg.Calculator.ResetDelay)
	compareHandler := handlers.NewCompareHandler(engine, store, defaults.TermMonths, cfg.Calculator.ResetDelay)
	pricesHandler := handlers.NewPricesHandler(store)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}
	{
		api.POST("/quote", quoteHandler.Quote)
		api.GET("/quote/schedule", quoteHandler.Schedule)
		api.GET("/compare", compareHandler.Compare)
		api.GET("/tiers", handlers.ListTiers)
		api.GET("/prices", pricesHandler.ListPrices)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Failed to start server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}
	stopFeed()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	log.Println("Server exited")
}

func newSnapshotStore(cfg config.SnapshotConfig) (data.SnapshotStore, func()) {
	if cfg.Backend != "redis" {
		log.Printf("Using in-memory price snapshot (ttl=%v)", cfg.TTL)
		return data.NewMemoryStore(cfg.TTL), func() {}
	}

	store := data.NewRedisStore(cfg.RedisAddr, cfg.TTL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Printf("Warning: redis at %s is not reachable: %v", cfg.RedisAddr, err)
	} else {
		log.Printf("Using redis price snapshot at %s (ttl=%v)", cfg.RedisAddr, cfg.TTL)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing redis client: %v", err)
		}
	}
}

// seedSnapshot loads an on-disk snapshot so quotes carry prices before the
// first fetch completes.
func seedSnapshot(store data.SnapshotStore, path string) {
	if path == "" {
		return
	}
	snap, err := data.LoadSnapshot(path)
	if err != nil {
		log.Printf("Warning: could not load price snapshot %s: %v", path, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Save(ctx, snap.Prices()); err != nil {
		log.Printf("Warning: could not seed price snapshot: %v", err)
		return
	}
	log.Printf("Seeded %d prices from %s", len(snap.Markets), path)
}
