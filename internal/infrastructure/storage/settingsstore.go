package storage

import (
	"fmt"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
)

const (
	selectedCurrencyKey = "currency"
	credentialsKey      = "credentials"
)

type storedCredentials struct {
	HeliusKey  string `json:"heliusApiKey"`
	MoralisKey string `json:"moralisApiKey"`
}

// SettingsStore keeps user preferences in the key/value store.
type SettingsStore struct {
	kv port.KeyValueStore
}

// NewSettingsStore creates a settings store over a key/value store.
func NewSettingsStore(kv port.KeyValueStore) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// SelectedCurrency returns the persisted display currency, or USD when none
// was ever chosen.
func (s *SettingsStore) SelectedCurrency() string {
	var code string
	found, err := s.kv.Get(selectedCurrencyKey, &code)
	if err != nil || !found || !entity.IsSupportedCurrency(code) {
		return "USD"
	}
	return code
}

// SetSelectedCurrency persists the display currency. Unsupported codes are
// rejected.
func (s *SettingsStore) SetSelectedCurrency(code string) error {
	if !entity.IsSupportedCurrency(code) {
		return fmt.Errorf("unsupported currency: %s", code)
	}
	return s.kv.Set(selectedCurrencyKey, code)
}

// Credentials returns the persisted provider API keys, if any were saved.
func (s *SettingsStore) Credentials() (string, string, bool) {
	var creds storedCredentials
	found, err := s.kv.Get(credentialsKey, &creds)
	if err != nil || !found {
		return "", "", false
	}
	return creds.HeliusKey, creds.MoralisKey, true
}

// SetCredentials persists provider API keys after shape validation. Keys are
// applied from the store on the next startup.
func (s *SettingsStore) SetCredentials(heliusKey, moralisKey string) error {
	if !config.IsValidHeliusKey(heliusKey) {
		return &entity.ConfigurationError{Provider: "helius", Reason: "API key is not a valid UUID"}
	}
	if !config.IsValidMoralisKey(moralisKey) {
		return &entity.ConfigurationError{Provider: "moralis", Reason: "API key is not a valid JWT"}
	}
	return s.kv.Set(credentialsKey, storedCredentials{
		HeliusKey:  heliusKey,
		MoralisKey: moralisKey,
	})
}

var _ port.SettingsStore = (*SettingsStore)(nil)
