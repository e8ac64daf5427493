package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// PriceSource is one stage of the price fallback chain. A source returns
// quotes for the identifiers it can price; identifiers absent from the map
// are passed on to the next stage.
type PriceSource interface {
	Name() string
	Quotes(ctx context.Context, assetIDs []string) (map[string]entity.PriceQuote, error)
}

// PriceResolver resolves best-effort USD prices for a set of asset
// identifiers by walking an ordered chain of sources. Identifiers missing
// from the result are unpriced and must be treated as zero by callers.
type PriceResolver interface {
	ResolvePrices(ctx context.Context, assetIDs []string) map[string]entity.PriceQuote
}
