// Package catalog holds the static exchange catalog: which symbols belong to
// each exchange view, plus fallback metadata used when the upstream profile
// lookup fails. Read-only after process start.
package catalog

import (
	"sort"
	"strings"

	"github.com/mbakken/norbank/internal/models"
)

var exchanges = map[string][]models.CatalogEntry{
	"OSE": {
		{Symbol: "EQNR.OL", Name: "Equinor", Sector: "Energy"},
		{Symbol: "DNB.OL", Name: "DNB Bank", Sector: "Financial Services"},
		{Symbol: "TEL.OL", Name: "Telenor", Sector: "Telecommunications"},
		{Symbol: "NHY.OL", Name: "Norsk Hydro", Sector: "Basic Materials"},
		{Symbol: "MOWI.OL", Name: "Mowi", Sector: "Consumer Defensive"},
		{Symbol: "YAR.OL", Name: "Yara International", Sector: "Basic Materials"},
		{Symbol: "AKRBP.OL", Name: "Aker BP", Sector: "Energy"},
		{Symbol: "ORK.OL", Name: "Orkla", Sector: "Consumer Defensive"},
		{Symbol: "SALM.OL", Name: "SalMar", Sector: "Consumer Defensive"},
		{Symbol: "STB.OL", Name: "Storebrand", Sector: "Financial Services"},
	},
	"NASDAQ": {
		{Symbol: "AAPL", Name: "Apple", Sector: "Technology"},
		{Symbol: "MSFT", Name: "Microsoft", Sector: "Technology"},
		{Symbol: "AMZN", Name: "Amazon.com", Sector: "Consumer Cyclical"},
		{Symbol: "GOOGL", Name: "Alphabet", Sector: "Communication Services"},
		{Symbol: "META", Name: "Meta Platforms", Sector: "Communication Services"},
		{Symbol: "NVDA", Name: "NVIDIA", Sector: "Technology"},
		{Symbol: "TSLA", Name: "Tesla", Sector: "Consumer Cyclical"},
	},
}

// symbolIndex maps symbol → (entry, exchange), built once at init.
var symbolIndex = buildSymbolIndex()

type indexed struct {
	entry    models.CatalogEntry
	exchange string
}

func buildSymbolIndex() map[string]indexed {
	idx := make(map[string]indexed)
	for exchange, entries := range exchanges {
		for _, e := range entries {
			idx[e.Symbol] = indexed{entry: e, exchange: exchange}
		}
	}
	return idx
}

// Exchanges returns the known exchange codes, sorted.
func Exchanges() []string {
	codes := make([]string, 0, len(exchanges))
	for code := range exchanges {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Symbols returns the ordered catalog entries for an exchange, or nil for
// an unknown exchange code.
func Symbols(exchange string) []models.CatalogEntry {
	return exchanges[strings.ToUpper(exchange)]
}

// Lookup returns the catalog entry and exchange code for a symbol.
func Lookup(symbol string) (models.CatalogEntry, string, bool) {
	idx, ok := symbolIndex[strings.ToUpper(symbol)]
	return idx.entry, idx.exchange, ok
}

// DefaultCurrency infers a symbol's trading currency from its exchange
// suffix: Oslo-listed symbols default to NOK, everything else to USD.
func DefaultCurrency(symbol string) string {
	if strings.HasSuffix(strings.ToUpper(symbol), ".OL") {
		return "NOK"
	}
	return "USD"
}
