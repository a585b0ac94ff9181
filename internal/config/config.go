package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Poll configuration
	PollInterval time.Duration
	HTTPTimeout  time.Duration

	// Incident feed
	FeedURL string

	// Telegram delivery
	TelegramBotToken string
	TelegramChatID   string

	// Weather provider
	OpenWeatherAPIKey string

	// Geocoding fallback
	GeocodingEnabled bool
	GeocodingURL     string
	GeocodingCountry string

	// Water point snapshot
	WaterPointsEnabled  bool
	WaterPointsURL      string
	WaterPointsFormat   string // "geojson" or "csv"
	WaterPointsCacheTTL time.Duration

	// Static map rendering
	MapboxToken string

	// Status page deep link
	StatusPageURL string

	// Dedup tracker
	DedupBackend     string // "memory" or "azure"
	StorageAccount   string
	StorageContainer string

	// Delivery policy: mark incidents as seen even when delivery failed
	MarkFailedDeliveries bool

	// Compatibility: treat numeric zero coordinates as missing, matching the
	// legacy bot's falsy check. Off by default since 0,0 is a valid point.
	TreatZeroAsMissing bool

	// Optional email copy of each alert
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		PollInterval: getDurationEnv("POLL_INTERVAL", 2*time.Minute),
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 20*time.Second),

		FeedURL: getEnv("FEED_URL", "https://api.fogos.pt/v2/incidents/active?all=1"),

		TelegramBotToken: getEnv("BOT_TOKEN", ""),
		TelegramChatID:   getEnv("CHAT_ID", ""),

		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),

		GeocodingEnabled: getBoolEnv("GEOCODING_ENABLED", true),
		GeocodingURL:     getEnv("GEOCODING_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodingCountry: getEnv("GEOCODING_COUNTRY", "Portugal"),

		WaterPointsEnabled:  getBoolEnv("WATERPOINTS_ENABLED", true),
		WaterPointsURL:      getEnv("WATERPOINTS_URL", ""),
		WaterPointsFormat:   getEnv("WATERPOINTS_FORMAT", "geojson"),
		WaterPointsCacheTTL: getDurationEnv("WATERPOINTS_CACHE_TTL", 0),

		MapboxToken: getEnv("MAPBOX_TOKEN", ""),

		StatusPageURL: getEnv("STATUS_PAGE_URL", "https://bvofrades.pt/ocorrencias/"),

		DedupBackend:     getEnv("DEDUP_BACKEND", "memory"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "incidents"),

		MarkFailedDeliveries: getBoolEnv("MARK_FAILED_DELIVERIES", true),
		TreatZeroAsMissing:   getBoolEnv("TREAT_ZERO_AS_MISSING", false),

		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.TelegramChatID == "" {
		return fmt.Errorf("CHAT_ID is required")
	}

	if c.WaterPointsFormat != "geojson" && c.WaterPointsFormat != "csv" {
		return fmt.Errorf("WATERPOINTS_FORMAT must be 'geojson' or 'csv'")
	}

	if c.DedupBackend != "memory" && c.DedupBackend != "azure" {
		return fmt.Errorf("DEDUP_BACKEND must be 'memory' or 'azure'")
	}

	if c.DedupBackend == "azure" && c.StorageAccount == "" {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when DEDUP_BACKEND is 'azure'")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
