package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/farmcheck/internal/api/rest"
	"github.com/fortuna/farmcheck/internal/api/websocket"
	"github.com/fortuna/farmcheck/internal/cache"
	"github.com/fortuna/farmcheck/internal/config"
	"github.com/fortuna/farmcheck/internal/ingest/fangraphs"
	"github.com/fortuna/farmcheck/internal/ingest/fantrax"
	"github.com/fortuna/farmcheck/internal/service"
)

const (
	serviceName    = "farmcheck"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Minors Eligibility Service", serviceName, serviceVersion)

	configPath := flag.String("config", getEnv("CONFIG_FILE", "farmcheck.yaml"), "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("✓ Configuration loaded (league %s)", cfg.LeagueID)

	// Pick the cache backend: Redis when configured, in-memory otherwise.
	var analysisCache cache.Cache
	if cfg.RedisURL != "" {
		var redisCache *cache.RedisCache
		maxRetries := 10
		retryDelay := 2 * time.Second

		log.Println("Connecting to Redis...")
		for i := 0; i < maxRetries; i++ {
			redisCache, err = cache.NewRedisCache(cfg.RedisURL)
			if err == nil {
				break
			}

			if i < maxRetries-1 {
				log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
				time.Sleep(retryDelay)
			} else {
				log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
			}
		}
		defer redisCache.Close()
		analysisCache = redisCache
		log.Println("✓ Connected to Redis")
	} else {
		analysisCache = cache.NewMemoryCache()
		log.Println("✓ Using in-memory cache (no Redis URL configured)")
	}

	// Ingest clients
	statsClient := fangraphs.New(cfg.FanGraphs.BaseURL, cfg.FanGraphs.Season)
	if cfg.FanGraphs.PageDelay > 0 {
		statsClient.PageDelay = cfg.FanGraphs.PageDelay.Std()
	}
	rosterClient := fantrax.New(cfg.Fantrax.BaseURL)

	analysis := service.NewAnalysisService(statsClient, rosterClient, analysisCache, service.Config{
		LeagueID:    cfg.LeagueID,
		MappingFile: cfg.MappingFile,
		StatsTTL:    cfg.Cache.StatsTTL.Std(),
		RostersTTL:  cfg.Cache.RostersTTL.Std(),
	})

	// Initialize WebSocket server and its progress reporter
	wsServer := websocket.NewServer()
	reporter := websocket.NewProgressReporter(wsServer.Hub())

	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ WebSocket server listening on :%s", cfg.WSPort)

	// Initialize REST API server
	restServer := rest.NewServer(cfg.RESTPort, analysis, reporter)
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", cfg.RESTPort)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s/ws/analysis/progress", cfg.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Printf("Shutting down %s gracefully...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
