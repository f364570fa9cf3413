package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Backend URL is required", func(t *testing.T) {
		t.Setenv("BACKEND_BASE_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("BACKEND_BASE_URL", "https://api.rent.test/api")
		t.Setenv("APP_ENV", "dev")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.IsProduction)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
		assert.Equal(t, "@every 5m", cfg.CatalogRefreshSpec)
		assert.Equal(t, 5_000_000, cfg.SearchMaxPrice)
		assert.Equal(t, 2000, cfg.SearchMinYear)
		assert.Equal(t, 2025, cfg.SearchMaxYear)
		assert.Equal(t, 50_000, cfg.BookingServiceFee)
		assert.Empty(t, cfg.RedisAddr)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("BACKEND_BASE_URL", "https://api.rent.test/api")
		t.Setenv("APP_ENV", PROD_STRING)
		t.Setenv("PROD_ORIGINS", "https://rent.test")
		t.Setenv("BACKEND_TIMEOUT", "3s")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("CATALOG_REFRESH_SPEC", "*/10 * * * *")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction)
		assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, "*/10 * * * *", cfg.CatalogRefreshSpec)
	})

	t.Run("Invalid values are reported", func(t *testing.T) {
		tests := []struct {
			key, value string
		}{
			{"BACKEND_TIMEOUT", "soon"},
			{"SESSION_TTL", "-1m"},
			{"REDIS_DB", "zero"},
			{"CATALOG_PAGE_SIZE", "0"},
			{"SEARCH_MIN_YEAR", "2030"},
			{"APP_ENV", PROD_STRING},
		}
		for _, tt := range tests {
			t.Run(tt.key, func(t *testing.T) {
				t.Setenv("BACKEND_BASE_URL", "https://api.rent.test/api")
				t.Setenv(tt.key, tt.value)
				_, err := Load()
				assert.Error(t, err)
			})
		}
	})
}
