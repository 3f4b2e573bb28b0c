// Package watchlist provides per-user watched-asset management
package watchlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mbakken/norbank/internal/catalog"
	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// Service implements WatchlistService
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	logger  *common.Logger
}

// NewService creates a new watchlist service. market may be nil; watch
// operations then skip the best-effort quote refresh.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  market,
		logger:  logger,
	}
}

// AddWatchedAsset upserts a watch record for the user. Re-adding a watched
// symbol updates the mutable fields in place; the record's identity and
// creation time are preserved. A quote refresh is kicked off best-effort so
// the list view has data, but its failure never fails the watch.
func (s *Service) AddWatchedAsset(ctx context.Context, userID string, asset *models.WatchedAsset) (*models.WatchedAsset, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	symbol := strings.ToUpper(strings.TrimSpace(asset.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	now := time.Now().UTC()
	record := &models.WatchedAsset{
		UserID:         userID,
		Symbol:         symbol,
		Name:           asset.Name,
		Exchange:       asset.Exchange,
		AssetType:      asset.AssetType,
		Region:         asset.Region,
		IsFavorite:     asset.IsFavorite,
		AlertPrice:     asset.AlertPrice,
		AlertDirection: asset.AlertDirection,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if entry, exchange, ok := catalog.Lookup(symbol); ok {
		if record.Name == "" {
			record.Name = entry.Name
		}
		if record.Exchange == "" {
			record.Exchange = exchange
		}
	}

	existing, err := s.storage.WatchlistStore().Get(ctx, userID, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Watchlist read failed")
	}
	if existing != nil {
		record.CreatedAt = existing.CreatedAt
		record.IsFavorite = existing.IsFavorite
	}

	if err := s.storage.WatchlistStore().Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save watched asset: %w", err)
	}

	if s.market != nil {
		if err := s.market.RefreshSymbol(ctx, symbol); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Watch-triggered refresh failed")
		}
	}

	s.logger.Info().Str("user", userID).Str("symbol", symbol).Msg("Asset watched")
	return record, nil
}

// ToggleFavorite flips the favorite flag on a watch record. Toggling a
// symbol the user does not watch yet creates the record as a favorite.
func (s *Service) ToggleFavorite(ctx context.Context, userID, symbol string) (*models.WatchedAsset, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if userID == "" || symbol == "" {
		return nil, fmt.Errorf("user ID and symbol are required")
	}

	existing, err := s.storage.WatchlistStore().Get(ctx, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to read watched asset: %w", err)
	}

	if existing == nil {
		return s.AddWatchedAsset(ctx, userID, &models.WatchedAsset{
			Symbol:     symbol,
			IsFavorite: true,
		})
	}

	existing.IsFavorite = !existing.IsFavorite
	existing.UpdatedAt = time.Now().UTC()

	if err := s.storage.WatchlistStore().Upsert(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to save watched asset: %w", err)
	}
	return existing, nil
}

// RemoveWatchedAsset deletes a watch record. Removing a symbol the user
// does not watch succeeds without effect.
func (s *Service) RemoveWatchedAsset(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if userID == "" || symbol == "" {
		return fmt.Errorf("user ID and symbol are required")
	}
	if err := s.storage.WatchlistStore().Delete(ctx, userID, symbol); err != nil {
		return fmt.Errorf("failed to remove watched asset: %w", err)
	}
	return nil
}

// GetUserWatchedAssets returns the user's watch records joined against the
// quote cache, favorites first then by creation order. A record whose
// symbol has no cached quote is returned with a nil quote rather than
// dropped.
func (s *Service) GetUserWatchedAssets(ctx context.Context, userID string) ([]*models.WatchedAssetView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	assets, err := s.storage.WatchlistStore().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched assets: %w", err)
	}
	if len(assets) == 0 {
		return []*models.WatchedAssetView{}, nil
	}

	symbols := make([]string, len(assets))
	for i, a := range assets {
		symbols[i] = a.Symbol
	}

	quotes, err := s.storage.MarketStore().GetQuotesBatch(ctx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Quote batch read failed, returning watchlist without quotes")
		quotes = nil
	}
	bySymbol := make(map[string]*models.MarketQuote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}

	views := make([]*models.WatchedAssetView, len(assets))
	for i, a := range assets {
		views[i] = &models.WatchedAssetView{
			WatchedAsset: *a,
			Quote:        bySymbol[a.Symbol],
		}
	}
	return views, nil
}
