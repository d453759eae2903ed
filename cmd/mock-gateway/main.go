package main

import (
	"account-storefront/internal/config"
	"account-storefront/internal/qrpayfake"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type mockConfig struct {
	Log    config.Log
	Addr   string `env:"MOCK_GATEWAY_ADDR" envDefault:":9090"`
	APIKey string `env:"GATEWAY_API_KEY"`
}

func main() {
	_ = godotenv.Load()

	cfg := &mockConfig{}
	if err := env.Parse(cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(os.Stdout, cfg.Log))

	gateway := qrpayfake.New(cfg.APIKey)

	slog.Info("mock QR gateway listening", "addr", cfg.Addr)
	go func() {
		if err := gateway.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock gateway error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	if err := gateway.Shutdown(); err != nil {
		slog.Error("mock gateway shutdown", "error", err)
	}
}
