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

	"github.com/bvofrades/incident-bot/internal/config"
	"github.com/bvofrades/incident-bot/internal/dedup"
	"github.com/bvofrades/incident-bot/internal/enrichment"
	"github.com/bvofrades/incident-bot/internal/notifications"
	"github.com/bvofrades/incident-bot/internal/observability"
	"github.com/bvofrades/incident-bot/internal/pipeline"
	"github.com/bvofrades/incident-bot/internal/scheduler"
	"github.com/bvofrades/incident-bot/internal/sources"
	"github.com/bvofrades/incident-bot/internal/storage"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting incident bot")

	metrics := observability.NewMetrics()

	// Dedup tracker: in-memory by default, blob-backed when configured
	tracker, err := buildTracker(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize dedup tracker: %v", err)
	}

	// Collaborator clients
	feed := sources.NewFogosFeed(cfg.FeedURL, cfg.HTTPTimeout)
	weather := sources.NewOpenWeatherProvider(cfg.OpenWeatherAPIKey, cfg.HTTPTimeout)

	var geocoder sources.Geocoder
	if cfg.GeocodingEnabled {
		geocoder = sources.NewNominatimGeocoder(cfg.GeocodingURL, cfg.HTTPTimeout)
	}

	waterPoints := buildWaterPointSource(cfg)

	var renderer sources.MapRenderer
	if cfg.MapboxToken != "" {
		renderer = sources.NewMapboxRenderer(cfg.MapboxToken)
	}

	// Pipeline wiring
	resolver := pipeline.NewResolver(geocoder, cfg.GeocodingCountry, cfg.TreatZeroAsMissing)
	assembler := enrichment.NewAssembler(weather, waterPoints, renderer, cfg.StatusPageURL, metrics)
	telegram := notifications.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.HTTPTimeout)
	notifier := notifications.NewService(cfg, telegram)
	pipelineService := pipeline.NewService(cfg, feed, resolver, assembler, tracker, notifier, metrics)

	// Initialize scheduler
	schedulerService := scheduler.NewService(cfg, pipelineService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server for health checks and manual triggers
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(pipelineService)).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func buildTracker(cfg *config.Config) (dedup.Tracker, error) {
	if cfg.DedupBackend != "azure" {
		return dedup.NewMemoryTracker(), nil
	}

	store, err := storage.NewAzureBlobStore(cfg.StorageAccount, cfg.StorageContainer)
	if err != nil {
		return nil, err
	}
	return dedup.NewPersistentTracker(store)
}

func buildWaterPointSource(cfg *config.Config) sources.WaterPointSource {
	if !cfg.WaterPointsEnabled || cfg.WaterPointsURL == "" {
		return nil
	}

	var source sources.WaterPointSource
	if cfg.WaterPointsFormat == "csv" {
		source = sources.NewCSVWaterPointSource(cfg.WaterPointsURL, cfg.HTTPTimeout)
	} else {
		source = sources.NewGeoJSONWaterPointSource(cfg.WaterPointsURL, cfg.HTTPTimeout)
	}

	if cfg.WaterPointsCacheTTL > 0 {
		source = sources.NewCachedWaterPointSource(source, cfg.WaterPointsCacheTTL, clockwork.NewRealClock())
	}

	return source
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func triggerHandler(pipelineService *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := pipelineService.RunCycle(context.Background()); err != nil {
				logrus.Errorf("Manual poll trigger failed: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Poll cycle triggered"}`))
	}
}
