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

// WatchlistStore persists per-user watch records. Records are keyed by
// user+symbol, which gives the (user, symbol) uniqueness for free.
type WatchlistStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewWatchlistStore(db *surrealdb.DB, logger *common.Logger) *WatchlistStore {
	return &WatchlistStore{
		db:     db,
		logger: logger,
	}
}

func watchRecordID(userID, symbol string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("watched_asset", userID+"|"+symbol)
}

func (s *WatchlistStore) Get(ctx context.Context, userID, symbol string) (*models.WatchedAsset, error) {
	asset, err := surrealdb.Select[models.WatchedAsset](ctx, s.db, watchRecordID(userID, symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to select watched asset: %w", err)
	}
	if asset == nil || asset.Symbol == "" {
		return nil, nil
	}
	return asset, nil
}

func (s *WatchlistStore) Upsert(ctx context.Context, asset *models.WatchedAsset) error {
	sql := "UPSERT $rid CONTENT $asset"
	vars := map[string]any{"rid": watchRecordID(asset.UserID, asset.Symbol), "asset": asset}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.WatchedAsset](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save watched asset after retries: %w", lastErr)
}

func (s *WatchlistStore) Delete(ctx context.Context, userID, symbol string) error {
	// DELETE on an absent record succeeds, which is the idempotency we want
	sql := "DELETE $rid"
	vars := map[string]any{"rid": watchRecordID(userID, symbol)}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete watched asset: %w", err)
	}
	return nil
}

func (s *WatchlistStore) ListByUser(ctx context.Context, userID string) ([]*models.WatchedAsset, error) {
	sql := "SELECT * FROM watched_asset WHERE user_id = $user ORDER BY is_favorite DESC, created_at ASC"
	vars := map[string]any{"user": userID}

	results, err := surrealdb.Query[[]models.WatchedAsset](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched assets: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.WatchedAsset
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

// Compile-time check
var _ interfaces.WatchlistStore = (*WatchlistStore)(nil)
