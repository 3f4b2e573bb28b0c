// Package models defines data structures for Norbank
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketQuote is the cached, normalized quote record for a single symbol.
// At most one record exists per symbol; price fields are decimals, never
// floats, so display values survive round-trips exactly.
type MarketQuote struct {
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	Exchange      string            `json:"exchange"`
	Price         decimal.Decimal   `json:"price"`
	Change        decimal.Decimal   `json:"change"`
	ChangePct     decimal.Decimal   `json:"change_pct"`
	PreviousClose decimal.Decimal   `json:"previous_close"`
	DayHigh       decimal.Decimal   `json:"day_high"`
	DayLow        decimal.Decimal   `json:"day_low"`
	Currency      string            `json:"currency"`
	Sector        string            `json:"sector"`
	Sparkline     []decimal.Decimal `json:"sparkline,omitempty"`
	LastUpdated   time.Time         `json:"last_updated"`
}

// ProviderQuote holds the raw price fields returned by the upstream quote
// endpoint before normalization.
type ProviderQuote struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePct     decimal.Decimal
	DayHigh       decimal.Decimal
	DayLow        decimal.Decimal
	Open          decimal.Decimal
	PreviousClose decimal.Decimal
	Timestamp     time.Time
}

// CompanyProfile holds the best-effort company metadata returned by the
// upstream profile endpoint. Any field may be empty.
type CompanyProfile struct {
	Symbol    string
	Name      string
	Exchange  string
	Currency  string
	Sector    string
	MarketCap decimal.Decimal
}

// CatalogEntry describes one symbol in a static exchange catalog.
type CatalogEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}
