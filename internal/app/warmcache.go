package app

import (
	"context"
	"os"
	"time"

	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
)

// warmCache pre-fetches the default exchange's quotes on startup so the
// first dashboard load is fast. Strictly best-effort: any failure is logged
// and the server keeps starting.
func warmCache(ctx context.Context, marketService interfaces.MarketService, config *common.Config, logger *common.Logger) {
	if !config.Market.WarmCache || os.Getenv("NORBANK_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled")
		return
	}

	exchange := config.Market.DefaultExchange
	if exchange == "" {
		logger.Info().Msg("Warm cache: no default exchange configured, skipping")
		return
	}

	start := time.Now()
	logger.Info().Str("exchange", exchange).Msg("Warm cache: starting")

	if err := marketService.InitExchange(ctx, exchange); err != nil {
		logger.Warn().Err(err).Str("exchange", exchange).Msg("Warm cache: failed")
		return
	}

	logger.Info().
		Str("exchange", exchange).
		Dur("duration", time.Since(start)).
		Msg("Warm cache: complete")
}
