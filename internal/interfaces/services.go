// Package interfaces defines service contracts for Norbank
package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbakken/norbank/internal/models"
)

// MarketService handles the quote freshness cache and refresh orchestration
type MarketService interface {
	// GetExchangeQuotes resolves an exchange's catalog symbols, refreshes
	// any absent or stale entries (sequential, rate-limited), and returns
	// the full cached set for the exchange.
	GetExchangeQuotes(ctx context.Context, exchange string) ([]*models.MarketQuote, error)

	// GetCachedExchangeQuotes reads the persisted cache only — never blocks
	// on the network.
	GetCachedExchangeQuotes(ctx context.Context, exchange string) ([]*models.MarketQuote, error)

	// GetQuote returns a single symbol's quote. When force is true the
	// upstream is always called regardless of freshness.
	GetQuote(ctx context.Context, symbol string, force bool) (*models.MarketQuote, error)

	// RefreshSymbol fetches and upserts a single symbol's quote.
	RefreshSymbol(ctx context.Context, symbol string) error

	// InitExchange warms the cache for an exchange at startup. Per-symbol
	// failures are logged and skipped, never fatal.
	InitExchange(ctx context.Context, exchange string) error

	// RenderSparkline renders the cached trailing-price series as a PNG.
	RenderSparkline(ctx context.Context, symbol string) ([]byte, error)
}

// WatchlistService manages per-user watched assets
type WatchlistService interface {
	// AddWatchedAsset upserts a watch record and triggers a best-effort
	// quote refresh for the symbol (refresh failure does not fail the watch).
	AddWatchedAsset(ctx context.Context, userID string, asset *models.WatchedAsset) (*models.WatchedAsset, error)

	// ToggleFavorite flips the favorite flag; toggling a symbol that is not
	// yet watched creates the record as favorite.
	ToggleFavorite(ctx context.Context, userID, symbol string) (*models.WatchedAsset, error)

	// RemoveWatchedAsset deletes a watch record; idempotent.
	RemoveWatchedAsset(ctx context.Context, userID, symbol string) error

	// GetUserWatchedAssets returns the user's watch records joined against
	// the quote cache, favorites first then by creation order.
	GetUserWatchedAssets(ctx context.Context, userID string) ([]*models.WatchedAssetView, error)
}

// BankingService exposes the demo banking domain scoped to the calling user.
type BankingService interface {
	// GetCompanyForUser returns the user's company, synthesizing and seeding
	// demo data on first access.
	GetCompanyForUser(ctx context.Context, userID string) (*models.Company, error)

	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	ListTransactions(ctx context.Context, userID, accountID string, limit int) ([]*models.Transaction, error)
	ListInvoices(ctx context.Context, userID string) ([]*models.Invoice, error)
	CreateInvoice(ctx context.Context, userID string, input CreateInvoiceInput) (*models.Invoice, error)
}

// CreateInvoiceInput holds the validated fields for a new invoice payment.
type CreateInvoiceInput struct {
	AccountID string
	Recipient string
	Amount    decimal.Decimal
	Currency  string
	DueDate   time.Time
}
