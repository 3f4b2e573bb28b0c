// Package common provides shared utilities for Norbank
package common

import "time"

// Freshness TTLs for cached data components
const (
	// FreshnessQuote is the staleness window for cached market quotes.
	// Quotes older than this trigger an upstream refresh.
	FreshnessQuote = 5 * time.Minute
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
