package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbakken/norbank/internal/models"
)

func TestWatchlistRequiresAuth(t *testing.T) {
	ts := newTestServer()

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/watchlist", nil),
		postJSON("/api/watchlist", map[string]string{"symbol": "EQNR.OL"}),
		httptest.NewRequest(http.MethodPost, "/api/watchlist/EQNR.OL/favorite", nil),
		httptest.NewRequest(http.MethodDelete, "/api/watchlist/EQNR.OL", nil),
	} {
		rec := ts.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.URL.Path)
	}
}

func TestWatchlistGet(t *testing.T) {
	ts := newTestServer().withWatchlist(&mockWatchlistService{
		getUser: func(_ context.Context, userID string) ([]*models.WatchedAssetView, error) {
			assert.Equal(t, "dev:demo", userID)
			return []*models.WatchedAssetView{
				{
					WatchedAsset: models.WatchedAsset{UserID: userID, Symbol: "EQNR.OL", IsFavorite: true},
					Quote:        sampleQuote("EQNR.OL"),
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.Header.Set("Authorization", ts.bearerFor("dev:demo", "Demo"))
	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assets []models.WatchedAssetView `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Assets, 1)
	assert.Equal(t, "EQNR.OL", resp.Assets[0].Symbol)
	require.NotNil(t, resp.Assets[0].Quote)
}

func TestWatchlistAdd(t *testing.T) {
	ts := newTestServer().withWatchlist(&mockWatchlistService{
		add: func(_ context.Context, userID string, asset *models.WatchedAsset) (*models.WatchedAsset, error) {
			asset.UserID = userID
			return asset, nil
		},
	})

	req := postJSON("/api/watchlist", map[string]string{"symbol": "EQNR.OL"})
	req.Header.Set("Authorization", ts.bearerFor("dev:demo", "Demo"))
	rec := ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var asset models.WatchedAsset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	assert.Equal(t, "dev:demo", asset.UserID)
}

func TestWatchlistAddAsFavorite(t *testing.T) {
	var gotFavorite bool
	ts := newTestServer().withWatchlist(&mockWatchlistService{
		add: func(_ context.Context, userID string, asset *models.WatchedAsset) (*models.WatchedAsset, error) {
			gotFavorite = asset.IsFavorite
			asset.UserID = userID
			return asset, nil
		},
	})

	req := postJSON("/api/watchlist", map[string]any{"symbol": "EQNR.OL", "is_favorite": true})
	req.Header.Set("Authorization", ts.bearerFor("dev:demo", "Demo"))
	rec := ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, gotFavorite)

	var asset models.WatchedAsset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	assert.True(t, asset.IsFavorite)
}

func TestWatchlistAddMissingSymbol(t *testing.T) {
	ts := newTestServer().withWatchlist(&mockWatchlistService{})

	req := postJSON("/api/watchlist", map[string]string{})
	req.Header.Set("Authorization", ts.bearerFor("dev:demo", "Demo"))
	rec := ts.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistFavorite(t *testing.T) {
	ts := newTestServer().withWatchlist(&mockWatchlistService{
		toggle: func(_ context.Context, userID, symbol string) (*models.WatchedAsset, error) {
			return &models.WatchedAsset{UserID: userID, Symbol: symbol, IsFavorite: true}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/watchlist/EQNR.OL/favorite", nil)
	req.Header.Set("Authorization", ts.bearerFor("dev:demo", "Demo"))
	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var asset models.WatchedAsset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	assert.True(t, asset.IsFavorite)
}

func TestWatchlistRemove(t *testing.T) {
	var removed string
	ts := newTestServer().withWatchlist(&mockWatchlistService{
		remove: func(_ context.Context, _, symbol string) error {
			removed = symbol
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist/EQNR.OL", nil)
	req.Header.Set("Authorization", ts.bearerFor("dev:demo", "Demo"))
	rec := ts.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "EQNR.OL", removed)
}
