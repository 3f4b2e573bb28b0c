// Package app wires configuration, storage, clients and services into the
// shared core used by cmd/norbank-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mbakken/norbank/internal/clients/quotes"
	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/services/banking"
	"github.com/mbakken/norbank/internal/services/market"
	"github.com/mbakken/norbank/internal/services/watchlist"
	"github.com/mbakken/norbank/internal/storage/surrealdb"
)

// App holds all initialized services, clients and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	MarketService    interfaces.MarketService
	WatchlistService interfaces.WatchlistService
	BankingService   interfaces.BankingService
	StartupTime      time.Time

	warmCacheCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Resolve config path: flag/arg, NORBANK_CONFIG, binary dir, dev fallback
	binDir := getBinaryDir()
	if configPath == "" {
		configPath = os.Getenv("NORBANK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "norbank.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/norbank.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.Quotes.APIKey == "" {
		logger.Warn().Msg("Quote provider API key not configured - market data will be unavailable")
	}
	quoteClient := quotes.NewClient(config.Clients.Quotes.APIKey,
		quotes.WithBaseURL(config.Clients.Quotes.BaseURL),
		quotes.WithLogger(logger),
		quotes.WithMinInterval(config.Clients.Quotes.GetMinInterval()),
		quotes.WithTimeout(config.Clients.Quotes.GetTimeout()),
	)

	marketService := market.NewService(quoteClient, storageManager, config.Market.GetStalenessWindow(), logger)
	watchlistService := watchlist.NewService(storageManager, marketService, logger)
	bankingService := banking.NewService(storageManager, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		MarketService:    marketService,
		WatchlistService: watchlistService,
		BankingService:   bankingService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartWarmCache launches the background cache warming goroutine.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.MarketService, a.Config, a.Logger)
	}()
}
