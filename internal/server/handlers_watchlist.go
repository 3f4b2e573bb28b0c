package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mbakken/norbank/internal/models"
)

// handleWatchlist handles GET and POST /api/watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleWatchlistGet(w, r)
	case http.MethodPost:
		s.handleWatchlistAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	views, err := s.app.WatchlistService.GetUserWatchedAssets(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Watchlist error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"assets": views,
	})
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Symbol         string           `json:"symbol"`
		Name           string           `json:"name"`
		Exchange       string           `json:"exchange"`
		AssetType      string           `json:"asset_type"`
		Region         string           `json:"region"`
		IsFavorite     bool             `json:"is_favorite"`
		AlertPrice     *decimal.Decimal `json:"alert_price"`
		AlertDirection string           `json:"alert_direction"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	asset, err := s.app.WatchlistService.AddWatchedAsset(r.Context(), userID, &models.WatchedAsset{
		Symbol:         req.Symbol,
		Name:           req.Name,
		Exchange:       req.Exchange,
		AssetType:      req.AssetType,
		Region:         req.Region,
		IsFavorite:     req.IsFavorite,
		AlertPrice:     req.AlertPrice,
		AlertDirection: req.AlertDirection,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Watch error: %v", err))
		return
	}

	WriteJSON(w, http.StatusCreated, asset)
}

// routeWatchlist dispatches /api/watchlist/{symbol} and
// /api/watchlist/{symbol}/favorite.
func (s *Server) routeWatchlist(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/watchlist/")

	if symbol, ok := strings.CutSuffix(rest, "/favorite"); ok {
		s.handleWatchlistFavorite(w, r, symbol)
		return
	}
	if strings.Contains(rest, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleWatchlistRemove(w, r, rest)
}

// handleWatchlistFavorite handles POST /api/watchlist/{symbol}/favorite.
func (s *Server) handleWatchlistFavorite(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	asset, err := s.app.WatchlistService.ToggleFavorite(r.Context(), userID, symbol)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Favorite error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, asset)
}

// handleWatchlistRemove handles DELETE /api/watchlist/{symbol}.
// Removing an unwatched symbol returns 204 like any other remove.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := s.app.WatchlistService.RemoveWatchedAsset(r.Context(), userID, symbol); err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Remove error: %v", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
