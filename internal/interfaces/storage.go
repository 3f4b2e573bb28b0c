// Package interfaces defines service contracts for Norbank
package interfaces

import (
	"context"

	"github.com/mbakken/norbank/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	MarketStore() MarketStore
	WatchlistStore() WatchlistStore
	UserStore() UserStore
	BankStore() BankStore

	// Lifecycle
	Close() error
}

// MarketStore persists the per-symbol quote cache. SaveQuote is an atomic
// insert-or-update keyed by symbol; concurrent writers resolve last-writer-wins
// on the whole record.
type MarketStore interface {
	// GetQuote retrieves the cached quote for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.MarketQuote, error)

	// SaveQuote upserts a quote keyed by symbol
	SaveQuote(ctx context.Context, quote *models.MarketQuote) error

	// GetQuotesBatch retrieves cached quotes for multiple symbols
	GetQuotesBatch(ctx context.Context, symbols []string) ([]*models.MarketQuote, error)

	// GetQuotesByExchange retrieves all cached quotes for an exchange,
	// ordered by most-recently-updated first. Never touches the network.
	GetQuotesByExchange(ctx context.Context, exchange string) ([]*models.MarketQuote, error)
}

// WatchlistStore persists per-user watch records, unique on (user_id, symbol).
type WatchlistStore interface {
	Get(ctx context.Context, userID, symbol string) (*models.WatchedAsset, error)
	Upsert(ctx context.Context, asset *models.WatchedAsset) error

	// Delete removes a watch record; deleting an absent record is a no-op.
	Delete(ctx context.Context, userID, symbol string) error

	// ListByUser returns a user's watch records, favorites first then by
	// creation order.
	ListByUser(ctx context.Context, userID string) ([]*models.WatchedAsset, error)
}

// UserStore manages user accounts.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

// BankStore persists the demo banking domain: companies, accounts,
// transactions, and invoices.
type BankStore interface {
	GetCompanyByUser(ctx context.Context, userID string) (*models.Company, error)
	SaveCompany(ctx context.Context, company *models.Company) error

	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error

	// ListTransactions returns an account's transactions newest first.
	// A non-positive limit returns all.
	ListTransactions(ctx context.Context, accountID string, limit int) ([]*models.Transaction, error)
	SaveTransaction(ctx context.Context, tx *models.Transaction) error

	// ListInvoices returns a company's invoices newest first.
	ListInvoices(ctx context.Context, companyID string) ([]*models.Invoice, error)
	SaveInvoice(ctx context.Context, invoice *models.Invoice) error
}
