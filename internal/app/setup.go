package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/engine"
	"github.com/betzbotz1/betzbotz-bot1/internal/gateway"
	"github.com/betzbotz1/betzbotz-bot1/internal/scanner"
	"github.com/betzbotz1/betzbotz-bot1/internal/storage"
	"github.com/betzbotz1/betzbotz-bot1/pkg/cache"
	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
	"github.com/betzbotz1/betzbotz-bot1/pkg/healthprobe"
	"github.com/betzbotz1/betzbotz-bot1/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	marketCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	gatewayClient, err := setupGateway(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup gateway: %w", err)
	}

	marketScanner := setupScanner(cfg, logger, gatewayClient, marketCache)

	tradeStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	tradingEngine := engine.New(&engine.Config{
		Gateway:       gatewayClient,
		Storage:       tradeStorage,
		MaxBetPerSide: cfg.MaxBetPerSide,
		Tiers:         cfg.TakeProfitTiers,
		Logger:        logger,
	})

	httpServer := setupHTTPServer(cfg, logger, healthChecker, tradingEngine, gatewayClient, marketScanner)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		gateway:       gatewayClient,
		scanner:       marketScanner,
		engine:        tradingEngine,
		storage:       tradeStorage,
		marketCache:   marketCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000, // 10x expected max items (1000 markets)
		MaxCost:     1000,  // Maximum 1000 items in cache
		BufferItems: 64,    // Buffer size for Get operations
		Logger:      logger,
	})
}

func setupGateway(cfg *config.Config, logger *zap.Logger) (*gateway.Client, error) {
	return gateway.NewClient(&gateway.Config{
		GammaURL:   cfg.GammaAPIURL,
		ClobURL:    cfg.ClobAPIURL,
		DataURL:    cfg.DataAPIURL,
		PolygonRPC: cfg.PolygonRPC,
		PrivateKey: cfg.PolymarketPrivateKey,
		APIKey:     cfg.PolymarketAPIKey,
		Secret:     cfg.PolymarketSecret,
		Passphrase: cfg.PolymarketPassphrase,
		Logger:     logger,
	})
}

func setupScanner(cfg *config.Config, logger *zap.Logger, gatewayClient *gateway.Client, marketCache cache.Cache) *scanner.Scanner {
	filter := scanner.NewFilter(gatewayClient, scanner.FilterConfig{
		MinVolume:        cfg.MinMarketVolume,
		MaxEntryPrice:    cfg.MaxEntryPrice,
		MinHoursToExpiry: cfg.MinHoursToExpiry,
		MaxDaysToExpiry:  cfg.MaxDaysToExpiry,
	}, logger)

	return scanner.New(&scanner.Config{
		Gateway:     gatewayClient,
		Filter:      filter,
		MarketCache: marketCache,
		MarketLimit: cfg.MarketScanLimit,
		Logger:      logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	tradingEngine *engine.Engine,
	gatewayClient *gateway.Client,
	marketScanner *scanner.Scanner,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		APIKey:        cfg.APISecretKey,
		Logger:        logger,
		HealthChecker: healthChecker,
		Trading:       tradingEngine,
		Balance:       gatewayClient,
		Scanner:       marketScanner,
		Settings:      cfg.SafeSettings(),
	})
}
