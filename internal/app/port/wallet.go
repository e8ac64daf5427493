package port

import "portfolio_tracker/internal/domain/entity"

// WalletStore persists the tracked wallet set.
type WalletStore interface {
	GetWallets() ([]entity.Wallet, error)
	AddWallet(wallet entity.Wallet) error
	UpdateWallet(address string, displayName *string, enabled *bool) (entity.Wallet, error)
	RemoveWallet(address string) error
}
