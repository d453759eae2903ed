package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Gateway    Gateway    `envPrefix:"GATEWAY_"`
	Admin      Admin      `envPrefix:"ADMIN_"`
	Settlement Settlement `envPrefix:"SETTLEMENT_"`
	Redis      Redis      `envPrefix:"REDIS_"`
	Kafka      Kafka      `envPrefix:"KAFKA_"`
}

// Gateway is the QR payment provider.
type Gateway struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"http://localhost:9090"`
	APIKey     string        `env:"API_KEY"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Admin struct {
	Username  string        `env:"USERNAME"`
	Password  string        `env:"PASSWORD"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

type Settlement struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	ExpiryWindow time.Duration `env:"EXPIRY_WINDOW" envDefault:"600s"`
}

// Redis caches advisory stock counts. Empty Addr disables the cache.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	StockTTL time.Duration `env:"STOCK_TTL" envDefault:"30s"`
}

// Kafka receives order lifecycle events. No brokers disables publishing.
type Kafka struct {
	Brokers        []string      `env:"BROKERS" envSeparator:","`
	Topic          string        `env:"TOPIC" envDefault:"storefront.orders"`
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"2s"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL    string `env:"DATABASE_URL" envDefault:"storefront.db"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
