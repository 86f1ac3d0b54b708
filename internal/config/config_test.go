package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", ":memory:")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.DSN())
	assert.Equal(t, 4, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(4*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CART_COOKIE_SECURE", "TRUE")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com,")
	t.Setenv("FRONTEND_BASE_URL", "https://shop.example.com/")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Cart.CookieSecure)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Frontend.AllowedOrigins)
	assert.Equal(t, "https://shop.example.com", cfg.Frontend.BaseURL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "production",
			Database:    DatabaseConfig{Driver: "postgres", Password: "secret"},
			JWT:         JWTConfig{SecretKey: "real-secret"},
			Cart:        CartConfig{SessionSecret: "real-session-secret"},
			Payment:     PaymentConfig{StripeSecretKey: "sk_live_x"},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.JWT.SecretKey = defaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Payment.StripeSecretKey = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Environment = "development"
	cfg.JWT.SecretKey = defaultJWTSecret
	assert.NoError(t, cfg.Validate())
}
