package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// BalanceCollector fetches the full balance picture for one wallet: native
// SOL via the node RPC plus SPL tokens via the token-index provider.
type BalanceCollector interface {
	// ValidateCredentials checks the configured provider credentials
	// without performing any network call. It returns a
	// *entity.ConfigurationError when a credential is missing or malformed.
	ValidateCredentials() error

	// Collect fetches balances for a single wallet address.
	Collect(ctx context.Context, walletAddress string) (entity.WalletBalances, error)
}
