package watchlist

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// --- Mocks ---

type memWatchlistStore struct {
	records map[string]*models.WatchedAsset
}

func newMemWatchlistStore() *memWatchlistStore {
	return &memWatchlistStore{records: make(map[string]*models.WatchedAsset)}
}

func key(userID, symbol string) string { return userID + "|" + symbol }

func (s *memWatchlistStore) Get(_ context.Context, userID, symbol string) (*models.WatchedAsset, error) {
	return s.records[key(userID, symbol)], nil
}

func (s *memWatchlistStore) Upsert(_ context.Context, asset *models.WatchedAsset) error {
	copied := *asset
	s.records[key(asset.UserID, asset.Symbol)] = &copied
	return nil
}

func (s *memWatchlistStore) Delete(_ context.Context, userID, symbol string) error {
	delete(s.records, key(userID, symbol))
	return nil
}

func (s *memWatchlistStore) ListByUser(_ context.Context, userID string) ([]*models.WatchedAsset, error) {
	var out []*models.WatchedAsset
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFavorite != out[j].IsFavorite {
			return out[i].IsFavorite
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type memMarketStore struct {
	quotes map[string]*models.MarketQuote
}

func (s *memMarketStore) GetQuote(_ context.Context, symbol string) (*models.MarketQuote, error) {
	return s.quotes[symbol], nil
}

func (s *memMarketStore) SaveQuote(_ context.Context, quote *models.MarketQuote) error {
	s.quotes[quote.Symbol] = quote
	return nil
}

func (s *memMarketStore) GetQuotesBatch(_ context.Context, symbols []string) ([]*models.MarketQuote, error) {
	var out []*models.MarketQuote
	for _, symbol := range symbols {
		if q, ok := s.quotes[symbol]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memMarketStore) GetQuotesByExchange(_ context.Context, _ string) ([]*models.MarketQuote, error) {
	return nil, nil
}

type mockStorage struct {
	watchlist *memWatchlistStore
	market    *memMarketStore
}

func (m *mockStorage) MarketStore() interfaces.MarketStore       { return m.market }
func (m *mockStorage) WatchlistStore() interfaces.WatchlistStore { return m.watchlist }
func (m *mockStorage) UserStore() interfaces.UserStore           { return nil }
func (m *mockStorage) BankStore() interfaces.BankStore           { return nil }
func (m *mockStorage) Close() error                              { return nil }

type mockMarketService struct {
	refreshed  []string
	refreshErr error
}

func (m *mockMarketService) GetExchangeQuotes(_ context.Context, _ string) ([]*models.MarketQuote, error) {
	return nil, nil
}
func (m *mockMarketService) GetCachedExchangeQuotes(_ context.Context, _ string) ([]*models.MarketQuote, error) {
	return nil, nil
}
func (m *mockMarketService) GetQuote(_ context.Context, _ string, _ bool) (*models.MarketQuote, error) {
	return nil, nil
}
func (m *mockMarketService) RefreshSymbol(_ context.Context, symbol string) error {
	m.refreshed = append(m.refreshed, symbol)
	return m.refreshErr
}
func (m *mockMarketService) InitExchange(_ context.Context, _ string) error { return nil }
func (m *mockMarketService) RenderSparkline(_ context.Context, _ string) ([]byte, error) {
	return nil, nil
}

func newTestService() (*Service, *mockStorage, *mockMarketService) {
	storage := &mockStorage{
		watchlist: newMemWatchlistStore(),
		market:    &memMarketStore{quotes: make(map[string]*models.MarketQuote)},
	}
	market := &mockMarketService{}
	return NewService(storage, market, common.NewSilentLogger()), storage, market
}

// --- Tests ---

func TestAddWatchedAsset(t *testing.T) {
	svc, _, market := newTestService()

	asset, err := svc.AddWatchedAsset(context.Background(), "dev:demo", &models.WatchedAsset{
		Symbol: "eqnr.ol",
	})
	require.NoError(t, err)

	assert.Equal(t, "EQNR.OL", asset.Symbol)
	// Name and exchange filled from the catalog
	assert.Equal(t, "Equinor", asset.Name)
	assert.Equal(t, "OSE", asset.Exchange)
	assert.False(t, asset.IsFavorite)
	assert.False(t, asset.CreatedAt.IsZero())

	// Watching triggers a best-effort refresh
	assert.Equal(t, []string{"EQNR.OL"}, market.refreshed)
}

func TestAddWatchedAssetRefreshFailureDoesNotFailWatch(t *testing.T) {
	svc, storage, market := newTestService()
	market.refreshErr = errors.New("upstream down")

	_, err := svc.AddWatchedAsset(context.Background(), "dev:demo", &models.WatchedAsset{
		Symbol: "EQNR.OL",
	})
	require.NoError(t, err)
	assert.Len(t, storage.watchlist.records, 1)
}

func TestAddWatchedAssetTwicePreservesIdentity(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.AddWatchedAsset(context.Background(), "dev:demo", &models.WatchedAsset{
		Symbol: "EQNR.OL",
	})
	require.NoError(t, err)

	_, err = svc.ToggleFavorite(context.Background(), "dev:demo", "EQNR.OL")
	require.NoError(t, err)

	second, err := svc.AddWatchedAsset(context.Background(), "dev:demo", &models.WatchedAsset{
		Symbol: "EQNR.OL",
		Name:   "Renamed",
	})
	require.NoError(t, err)

	// Re-adding keeps creation time and the favorite flag
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.IsFavorite)
	assert.Equal(t, "Renamed", second.Name)
}

func TestToggleFavoriteFlips(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddWatchedAsset(context.Background(), "dev:demo", &models.WatchedAsset{
		Symbol: "EQNR.OL",
	})
	require.NoError(t, err)

	on, err := svc.ToggleFavorite(context.Background(), "dev:demo", "EQNR.OL")
	require.NoError(t, err)
	assert.True(t, on.IsFavorite)

	off, err := svc.ToggleFavorite(context.Background(), "dev:demo", "EQNR.OL")
	require.NoError(t, err)
	assert.False(t, off.IsFavorite)
}

func TestToggleFavoriteCreatesWhenAbsent(t *testing.T) {
	svc, storage, _ := newTestService()

	asset, err := svc.ToggleFavorite(context.Background(), "dev:demo", "DNB.OL")
	require.NoError(t, err)

	assert.True(t, asset.IsFavorite)
	assert.Len(t, storage.watchlist.records, 1)
}

func TestRemoveWatchedAssetIdempotent(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddWatchedAsset(context.Background(), "dev:demo", &models.WatchedAsset{
		Symbol: "EQNR.OL",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveWatchedAsset(context.Background(), "dev:demo", "EQNR.OL"))
	// Removing again is a no-op, not an error
	require.NoError(t, svc.RemoveWatchedAsset(context.Background(), "dev:demo", "EQNR.OL"))
	require.NoError(t, svc.RemoveWatchedAsset(context.Background(), "dev:demo", "NEVER.WATCHED"))
}

func TestGetUserWatchedAssetsJoinsQuotes(t *testing.T) {
	svc, storage, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddWatchedAsset(ctx, "dev:demo", &models.WatchedAsset{Symbol: "EQNR.OL"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.AddWatchedAsset(ctx, "dev:demo", &models.WatchedAsset{Symbol: "DNB.OL"})
	require.NoError(t, err)

	// Only EQNR has a cached quote
	storage.market.SaveQuote(ctx, &models.MarketQuote{
		Symbol: "EQNR.OL",
		Price:  decimal.NewFromFloat(285.50),
	})

	_, err = svc.ToggleFavorite(ctx, "dev:demo", "DNB.OL")
	require.NoError(t, err)

	views, err := svc.GetUserWatchedAssets(ctx, "dev:demo")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Favorites first
	assert.Equal(t, "DNB.OL", views[0].Symbol)
	assert.Nil(t, views[0].Quote)

	assert.Equal(t, "EQNR.OL", views[1].Symbol)
	require.NotNil(t, views[1].Quote)
	assert.Equal(t, "285.5", views[1].Quote.Price.String())
}

func TestGetUserWatchedAssetsEmpty(t *testing.T) {
	svc, _, _ := newTestService()

	views, err := svc.GetUserWatchedAssets(context.Background(), "dev:nobody")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetUserWatchedAssetsScopedToUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddWatchedAsset(ctx, "dev:alice", &models.WatchedAsset{Symbol: "EQNR.OL"})
	require.NoError(t, err)
	_, err = svc.AddWatchedAsset(ctx, "dev:bob", &models.WatchedAsset{Symbol: "DNB.OL"})
	require.NoError(t, err)

	views, err := svc.GetUserWatchedAssets(ctx, "dev:alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "EQNR.OL", views[0].Symbol)
}
