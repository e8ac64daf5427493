package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

const walletsKey = "wallets"

// WalletStore persists the tracked wallet set through the key/value store.
type WalletStore struct {
	kv     port.KeyValueStore
	logger port.Logger
}

// NewWalletStore creates a wallet store on top of a key/value store.
func NewWalletStore(kv port.KeyValueStore, logger port.Logger) *WalletStore {
	return &WalletStore{kv: kv, logger: logger}
}

// ValidateAddress checks that an address has the shape of a Solana public
// key: base58 text decoding to 32 bytes. No cryptographic validation.
func ValidateAddress(address string) error {
	decoded, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("address %q is not valid base58: %w", address, err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("address %q decodes to %d bytes, want 32", address, len(decoded))
	}
	return nil
}

// GetWallets returns all stored wallets.
func (s *WalletStore) GetWallets() ([]entity.Wallet, error) {
	var wallets []entity.Wallet
	found, err := s.kv.Get(walletsKey, &wallets)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}
	if !found {
		return []entity.Wallet{}, nil
	}
	return wallets, nil
}

// AddWallet validates and stores a new wallet. The address is the identity;
// adding an already tracked address is an error.
func (s *WalletStore) AddWallet(wallet entity.Wallet) error {
	if err := ValidateAddress(wallet.Address); err != nil {
		return err
	}

	wallets, err := s.GetWallets()
	if err != nil {
		return err
	}
	for _, w := range wallets {
		if w.Address == wallet.Address {
			return fmt.Errorf("wallet %s is already tracked", wallet.Address)
		}
	}

	if wallet.ID == "" {
		wallet.ID = uuid.NewString()
	}
	wallets = append(wallets, wallet)
	if err := s.kv.Set(walletsKey, wallets); err != nil {
		return fmt.Errorf("failed to persist wallets: %w", err)
	}
	s.logger.Info("Wallet added", "address", wallet.Address, "displayName", wallet.DisplayName)
	return nil
}

// UpdateWallet changes the display name and/or enabled flag of a wallet.
// Nil fields are left untouched.
func (s *WalletStore) UpdateWallet(address string, displayName *string, enabled *bool) (entity.Wallet, error) {
	wallets, err := s.GetWallets()
	if err != nil {
		return entity.Wallet{}, err
	}
	for i, w := range wallets {
		if w.Address != address {
			continue
		}
		if displayName != nil {
			wallets[i].DisplayName = *displayName
		}
		if enabled != nil {
			wallets[i].Enabled = *enabled
		}
		if err := s.kv.Set(walletsKey, wallets); err != nil {
			return entity.Wallet{}, fmt.Errorf("failed to persist wallets: %w", err)
		}
		return wallets[i], nil
	}
	return entity.Wallet{}, fmt.Errorf("wallet with address %s not found", address)
}

// RemoveWallet deletes a wallet by address.
func (s *WalletStore) RemoveWallet(address string) error {
	wallets, err := s.GetWallets()
	if err != nil {
		return err
	}
	kept := make([]entity.Wallet, 0, len(wallets))
	for _, w := range wallets {
		if w.Address != address {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(wallets) {
		return fmt.Errorf("wallet with address %s not found", address)
	}
	if err := s.kv.Set(walletsKey, kept); err != nil {
		return fmt.Errorf("failed to persist wallets: %w", err)
	}
	s.logger.Info("Wallet removed", "address", address)
	return nil
}

var _ port.WalletStore = (*WalletStore)(nil)
