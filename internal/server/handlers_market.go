package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mbakken/norbank/internal/catalog"
)

// handleExchangeList handles GET /api/market/exchanges.
func (s *Server) handleExchangeList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exchanges": catalog.Exchanges(),
	})
}

// routeExchanges dispatches /api/market/exchanges/{code} and
// /api/market/exchanges/{code}/cached.
func (s *Server) routeExchanges(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/market/exchanges/")

	if code, ok := strings.CutSuffix(rest, "/cached"); ok {
		s.handleExchangeCached(w, r, code)
		return
	}
	if strings.Contains(rest, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleExchangeQuotes(w, r, rest)
}

// handleExchangeQuotes handles GET /api/market/exchanges/{code}.
// Refreshes stale symbols before answering, so the call can take a while
// for a cold exchange.
func (s *Server) handleExchangeQuotes(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	quotes, err := s.app.MarketService.GetExchangeQuotes(r.Context(), code)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Exchange quotes error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exchange": strings.ToUpper(code),
		"quotes":   quotes,
	})
}

// handleExchangeCached handles GET /api/market/exchanges/{code}/cached.
// Serves whatever the cache holds without touching the upstream provider.
func (s *Server) handleExchangeCached(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	quotes, err := s.app.MarketService.GetCachedExchangeQuotes(r.Context(), code)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Exchange quotes error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exchange": strings.ToUpper(code),
		"quotes":   quotes,
	})
}

// routeQuotes dispatches /api/market/quotes/{symbol} and
// /api/market/quotes/{symbol}/sparkline.png.
func (s *Server) routeQuotes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/market/quotes/")

	if symbol, ok := strings.CutSuffix(rest, "/sparkline.png"); ok {
		s.handleSparkline(w, r, symbol)
		return
	}
	if strings.Contains(rest, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleQuote(w, r, rest)
}

// handleQuote handles GET /api/market/quotes/{symbol}. Refreshes from the
// upstream provider by default; pass ?force=false to serve the cache.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	force := r.URL.Query().Get("force") != "false"
	quote, err := s.app.MarketService.GetQuote(r.Context(), strings.ToUpper(symbol), force)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Quote error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// handleSparkline handles GET /api/market/quotes/{symbol}/sparkline.png.
func (s *Server) handleSparkline(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.MarketService.RenderSparkline(r.Context(), strings.ToUpper(symbol))
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Sparkline error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
