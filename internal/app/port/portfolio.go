package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// PortfolioService aggregates balances and prices across all tracked wallets
// into one snapshot.
type PortfolioService interface {
	// Aggregate runs one full aggregation cycle over the given wallets.
	// Per-wallet failures are reported in the PortfolioError slice and never
	// abort the cycle; a non-nil error is returned only for configuration
	// failures that make the whole cycle pointless.
	Aggregate(ctx context.Context, wallets []entity.Wallet) (entity.PortfolioSnapshot, []entity.PortfolioError, error)

	// Refresh loads the tracked wallets, aggregates them and publishes the
	// result. Concurrent calls for the same wallet set share one cycle.
	Refresh(ctx context.Context) (entity.PortfolioSnapshot, []entity.PortfolioError, error)

	// LastSnapshot returns the most recently persisted snapshot, if any.
	LastSnapshot() (entity.PortfolioSnapshot, bool)
}
