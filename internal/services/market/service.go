// Package market implements the quote freshness cache and refresh pipeline
package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbakken/norbank/internal/catalog"
	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// SparklinePoints is the length of the synthetic trailing-price series
// attached to each refreshed quote.
const SparklinePoints = 30

// SeriesSource produces a trailing-price series ending at the given price.
// It is injectable so tests get deterministic output.
type SeriesSource func(symbol string, end decimal.Decimal, points int) []decimal.Decimal

// Service implements MarketService on top of a quote client and the
// persisted quote cache.
type Service struct {
	client    interfaces.QuoteClient
	storage   interfaces.StorageManager
	logger    *common.Logger
	staleness time.Duration
	now       func() time.Time // injectable clock for testing
	series    SeriesSource
}

// NewService creates a new market service. A non-positive staleness
// window falls back to the default quote freshness TTL.
func NewService(client interfaces.QuoteClient, storage interfaces.StorageManager, staleness time.Duration, logger *common.Logger) *Service {
	if staleness <= 0 {
		staleness = common.FreshnessQuote
	}
	return &Service{
		client:    client,
		storage:   storage,
		logger:    logger,
		staleness: staleness,
		now:       time.Now,
		series:    syntheticSeries,
	}
}

// GetExchangeQuotes resolves the exchange's catalog, refreshes absent or
// stale symbols one at a time, and returns the full cached set. The quote
// client enforces the minimum spacing between upstream calls, so refreshes
// are strictly sequential.
func (s *Service) GetExchangeQuotes(ctx context.Context, exchange string) ([]*models.MarketQuote, error) {
	entries := catalog.Symbols(exchange)
	if entries == nil {
		return nil, fmt.Errorf("unknown exchange: %s", exchange)
	}

	store := s.storage.MarketStore()
	quotes := make([]*models.MarketQuote, 0, len(entries))
	refreshed := 0

	for _, entry := range entries {
		cached, err := store.GetQuote(ctx, entry.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Cache read failed")
		}
		if cached != nil && common.IsFresh(cached.LastUpdated, s.staleness) {
			quotes = append(quotes, cached)
			continue
		}

		quote, err := s.refresh(ctx, entry.Symbol)
		if err != nil {
			// Stale data beats no data; a refresh failure never fails the batch
			s.logger.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Quote refresh failed")
			if cached != nil {
				quotes = append(quotes, cached)
			}
			continue
		}
		refreshed++
		quotes = append(quotes, quote)
	}

	s.logger.Info().
		Str("exchange", exchange).
		Int("symbols", len(entries)).
		Int("refreshed", refreshed).
		Msg("Exchange quotes resolved")

	return quotes, nil
}

// GetCachedExchangeQuotes reads the persisted cache only, most recently
// updated first. It never calls the upstream provider.
func (s *Service) GetCachedExchangeQuotes(ctx context.Context, exchange string) ([]*models.MarketQuote, error) {
	if catalog.Symbols(exchange) == nil {
		return nil, fmt.Errorf("unknown exchange: %s", exchange)
	}
	return s.storage.MarketStore().GetQuotesByExchange(ctx, strings.ToUpper(exchange))
}

// GetQuote returns a single symbol's quote, refreshing when stale or when
// force is set.
func (s *Service) GetQuote(ctx context.Context, symbol string, force bool) (*models.MarketQuote, error) {
	cached, err := s.storage.MarketStore().GetQuote(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Cache read failed")
	}
	if !force && cached != nil && common.IsFresh(cached.LastUpdated, s.staleness) {
		return cached, nil
	}

	quote, refreshErr := s.refresh(ctx, symbol)
	if refreshErr != nil {
		if cached != nil {
			s.logger.Warn().Err(refreshErr).Str("symbol", symbol).Msg("Refresh failed, serving stale quote")
			return cached, nil
		}
		return nil, refreshErr
	}
	return quote, nil
}

// RefreshSymbol fetches and upserts a single symbol's quote.
func (s *Service) RefreshSymbol(ctx context.Context, symbol string) error {
	_, err := s.refresh(ctx, symbol)
	return err
}

// InitExchange warms the cache for an exchange. Already-fresh symbols are
// skipped, per-symbol failures are logged and skipped.
func (s *Service) InitExchange(ctx context.Context, exchange string) error {
	entries := catalog.Symbols(exchange)
	if entries == nil {
		return fmt.Errorf("unknown exchange: %s", exchange)
	}

	store := s.storage.MarketStore()
	for _, entry := range entries {
		cached, _ := store.GetQuote(ctx, entry.Symbol)
		if cached != nil && common.IsFresh(cached.LastUpdated, s.staleness) {
			continue
		}
		if _, err := s.refresh(ctx, entry.Symbol); err != nil {
			s.logger.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Warm-up refresh failed")
		}
	}
	return nil
}

// refresh fetches the quote and best-effort profile for a symbol,
// normalizes the result, and upserts it into the cache.
func (s *Service) refresh(ctx context.Context, symbol string) (*models.MarketQuote, error) {
	provider, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	quote := &models.MarketQuote{
		Symbol:        symbol,
		Price:         provider.Price,
		Change:        provider.Change,
		ChangePct:     provider.ChangePct,
		PreviousClose: provider.PreviousClose,
		DayHigh:       provider.DayHigh,
		DayLow:        provider.DayLow,
		LastUpdated:   s.now().UTC(),
	}

	// The profile is best-effort; a failure falls back to catalog metadata
	// and the symbol-suffix currency convention.
	profile, profileErr := s.client.GetCompanyProfile(ctx, symbol)
	if profileErr == nil {
		quote.Name = profile.Name
		quote.Currency = profile.Currency
		quote.Sector = profile.Sector
	} else {
		s.logger.Debug().Err(profileErr).Str("symbol", symbol).Msg("Profile lookup failed, using catalog fallback")
	}

	if entry, exchange, ok := catalog.Lookup(symbol); ok {
		quote.Exchange = exchange
		if quote.Name == "" {
			quote.Name = entry.Name
		}
		if quote.Sector == "" {
			quote.Sector = entry.Sector
		}
	}
	if quote.Currency == "" {
		quote.Currency = catalog.DefaultCurrency(symbol)
	}

	quote.Sparkline = s.series(symbol, quote.Price, SparklinePoints)

	if err := s.storage.MarketStore().SaveQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote for %s: %w", symbol, err)
	}

	return quote, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
