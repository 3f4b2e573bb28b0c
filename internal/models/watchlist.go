package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert directions for watched-asset price alerts.
const (
	AlertAbove = "above"
	AlertBelow = "below"
)

// WatchedAsset is a per-user watch record, unique on (user_id, symbol).
// Created on first watch, updated on favorite toggle, deleted on unwatch.
type WatchedAsset struct {
	UserID         string           `json:"user_id"`
	Symbol         string           `json:"symbol"`
	Name           string           `json:"name,omitempty"`
	Exchange       string           `json:"exchange,omitempty"`
	AssetType      string           `json:"asset_type,omitempty"`
	Region         string           `json:"region,omitempty"`
	IsFavorite     bool             `json:"is_favorite"`
	AlertPrice     *decimal.Decimal `json:"alert_price,omitempty"`
	AlertDirection string           `json:"alert_direction,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// WatchedAssetView joins a watch record with its cached quote for display.
// Quote is nil when the symbol has no cached quote yet (left join).
type WatchedAssetView struct {
	WatchedAsset
	Quote *MarketQuote `json:"quote,omitempty"`
}
