package config_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"account-storefront/internal/config"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "storefront.db", cfg.Database.URL)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Settlement.PollInterval)
	assert.Equal(t, 600*time.Second, cfg.Settlement.ExpiryWindow)
	assert.Equal(t, 12*time.Hour, cfg.Admin.TokenTTL)
	assert.Equal(t, "storefront.orders", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "8080", cfg.HTTP.Port)
}

func TestConfigFromEnvironment(t *testing.T) {
	var cfg config.Config
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
		"DB_DRIVER":                "postgres",
		"DATABASE_URL":             "postgres://store@localhost/store",
		"GATEWAY_BASE_API_URL":     "https://gateway.example",
		"GATEWAY_API_KEY":          "k1",
		"GATEWAY_TIMEOUT":          "3s",
		"ADMIN_USERNAME":           "admin",
		"ADMIN_JWT_SECRET":         "s",
		"SETTLEMENT_POLL_INTERVAL": "2s",
		"REDIS_ADDR":               "localhost:6379",
		"REDIS_STOCK_TTL":          "1m",
		"KAFKA_BROKERS":            "k1:9092,k2:9092",
	}}))

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://gateway.example", cfg.Gateway.BaseApiURL)
	assert.Equal(t, "k1", cfg.Gateway.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, 2*time.Second, cfg.Settlement.PollInterval)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.StockTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger(&buf, config.Log{Level: "warn", Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown", "product_id", "net-x")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "product_id=net-x")
	assert.Equal(t, slog.LevelDebug, config.Log{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, config.Log{Level: "bogus"}.SlogLevel())
}
