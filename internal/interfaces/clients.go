// Package interfaces defines service contracts for Norbank
package interfaces

import (
	"context"

	"github.com/mbakken/norbank/internal/models"
)

// QuoteClient provides access to the upstream quote provider API
type QuoteClient interface {
	// GetQuote retrieves the current price fields for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.ProviderQuote, error)

	// GetCompanyProfile retrieves best-effort company metadata for a symbol
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}
