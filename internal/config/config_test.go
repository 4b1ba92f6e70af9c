package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "YES")
	t.Setenv("X_INT", "42")
	t.Setenv("X_BAD_INT", "forty")
	t.Setenv("X_DUR", "150ms")

	assert.True(t, envBool("X_BOOL", false))
	assert.True(t, envBool("X_UNSET_BOOL", true))
	assert.Equal(t, 42, envInt("X_INT", 1))
	assert.Equal(t, 1, envInt("X_BAD_INT", 1))
	assert.Equal(t, 150*time.Millisecond, envDur("X_DUR", time.Second))
	assert.Equal(t, "fallback", envStr("X_UNSET_STR", "fallback"))
}

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("ROOM_WINDOW_DAYS", "0")
	t.Setenv("RABBITMQ_URL", "amqp://broker:5672/")

	cfg := Load()
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 20, cfg.WindowDays)
	assert.Equal(t, 60, cfg.AccessTTLMin)
	assert.Equal(t, "amqp://broker:5672/", cfg.RabbitURL)
	assert.Equal(t, 10*time.Second, cfg.LockTTL)
}

func TestLoadRateLimitConfig_Normalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.Equal(t, "cache:rooms", cfg.Prefix)
}

func TestLoadWorker(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://mq:5672/")
	t.Setenv("BOOKING_LOG_DIR", "/var/log/hotel")

	cfg := LoadWorker()
	assert.Equal(t, "amqp://mq:5672/", cfg.RabbitURL)
	assert.Equal(t, "/var/log/hotel", cfg.BookingLogDir)
}
