package main

import (
	"account-storefront/internal/client"
	"account-storefront/internal/config"
	"account-storefront/internal/repository"
	"account-storefront/internal/server"
	"account-storefront/internal/service"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	log := config.NewLogger(os.Stdout, cfg.Log).With("env", cfg.Environment.Name)
	slog.SetDefault(log)

	if err := run(cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	gormLogger := logger.Default.LogMode(client.GormLogLevel(cfg.Log.Level))
	db, err := client.OpenDatabase(cfg.Database, gormLogger)
	if err != nil {
		return err
	}
	if err := client.Migrate(db); err != nil {
		return err
	}

	var credentialRepo repository.CredentialRepository = repository.NewCredentialRepository(db)
	rdb, err := client.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("stock cache disabled", "error", err)
	} else if rdb != nil {
		defer rdb.Close()
		credentialRepo = repository.NewCachedCredentialRepository(credentialRepo, rdb, cfg.Redis.StockTTL)
		slog.Info("stock cache enabled", "addr", cfg.Redis.Addr)
	}

	eventPublisher, err := client.NewEventPublisher(cfg.Kafka)
	if err != nil {
		slog.Warn("order events disabled", "error", err)
		eventPublisher = client.NoopEventPublisher{}
	}
	defer eventPublisher.Close()

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	gatewayClient := client.NewGatewayClient(&cfg.Gateway)

	settlementService := service.NewSettlementService(
		db,
		gatewayClient,
		eventPublisher,
		productRepo,
		orderRepo,
		credentialRepo,
	)
	catalogService := service.NewCatalogService(productRepo)

	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = randomSecret()
		slog.Warn("ADMIN_JWT_SECRET not set, admin tokens will not survive a restart")
	}
	adminService := service.NewAdminService(adminRepo, &cfg.Admin)
	if cfg.Admin.Username != "" {
		if err := adminService.Seed(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return err
		}
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(settlementService, catalogService, adminService)

	slog.Info("starting HTTP server", "addr", serverAddr, "db_driver", cfg.Database.Driver)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	slog.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
