package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("NUM_OF_WORKERS", "")
	t.Setenv("SEED_NOTIFICATIONS", "")

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, 4, cfg.NumberOfWorkers)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.True(t, cfg.SeedNotifications)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://board.test/api")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("SEED_NOTIFICATIONS", "false")
	t.Setenv("NUM_OF_WORKERS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "http://board.test/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 2.5, cfg.APIRateLimit)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.False(t, cfg.SeedNotifications)
	assert.Equal(t, 4, cfg.NumberOfWorkers, "invalid ints fall back to the default")
}
