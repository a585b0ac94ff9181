package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.PollInterval)
	assert.Equal(t, "https://api.fogos.pt/v2/incidents/active?all=1", cfg.FeedURL)
	assert.True(t, cfg.GeocodingEnabled)
	assert.Equal(t, "Portugal", cfg.GeocodingCountry)
	assert.Equal(t, "geojson", cfg.WaterPointsFormat)
	assert.Equal(t, "memory", cfg.DedupBackend)
	assert.True(t, cfg.MarkFailedDeliveries)
	assert.False(t, cfg.TreatZeroAsMissing)
}

func TestLoad_MissingTelegramSecrets(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHAT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_InvalidWaterPointsFormat(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100123")
	t.Setenv("WATERPOINTS_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WATERPOINTS_FORMAT")
}

func TestLoad_AzureBackendRequiresAccount(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100123")
	t.Setenv("DEDUP_BACKEND", "azure")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_STORAGE_ACCOUNT")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100123")
	t.Setenv("POLL_INTERVAL", "5m")
	t.Setenv("GEOCODING_ENABLED", "false")
	t.Setenv("WATERPOINTS_FORMAT", "csv")
	t.Setenv("MARK_FAILED_DELIVERIES", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.False(t, cfg.GeocodingEnabled)
	assert.Equal(t, "csv", cfg.WaterPointsFormat)
	assert.False(t, cfg.MarkFailedDeliveries)
}
