package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// MarketStore persists the per-symbol quote cache. Records are keyed by
// symbol, so a symbol can never have more than one cache row.
type MarketStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewMarketStore(db *surrealdb.DB, logger *common.Logger) *MarketStore {
	return &MarketStore{
		db:     db,
		logger: logger,
	}
}

func (s *MarketStore) GetQuote(ctx context.Context, symbol string) (*models.MarketQuote, error) {
	quote, err := surrealdb.Select[models.MarketQuote](ctx, s.db, surrealmodels.NewRecordID("market_quote", symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to select quote: %w", err)
	}
	if quote == nil || quote.Symbol == "" {
		return nil, nil
	}
	return quote, nil
}

func (s *MarketStore) SaveQuote(ctx context.Context, quote *models.MarketQuote) error {
	sql := "UPSERT $rid CONTENT $quote"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("market_quote", quote.Symbol), "quote": quote}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.MarketQuote](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save quote after retries: %w", lastErr)
}

func (s *MarketStore) GetQuotesBatch(ctx context.Context, symbols []string) ([]*models.MarketQuote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	sql := "SELECT * FROM market_quote WHERE symbol IN $symbols"
	vars := map[string]any{"symbols": symbols}

	results, err := surrealdb.Query[[]models.MarketQuote](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote batch: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.MarketQuote
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *MarketStore) GetQuotesByExchange(ctx context.Context, exchange string) ([]*models.MarketQuote, error) {
	sql := "SELECT * FROM market_quote WHERE exchange = $exchange ORDER BY last_updated DESC"
	vars := map[string]any{"exchange": exchange}

	results, err := surrealdb.Query[[]models.MarketQuote](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange quotes: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.MarketQuote
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

// Compile-time check
var _ interfaces.MarketStore = (*MarketStore)(nil)
