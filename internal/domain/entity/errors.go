package entity

import "fmt"

// ConfigurationError reports a missing or malformed provider credential.
// It is the only error class that aborts an aggregation cycle: without the
// credential nothing useful can be computed for that provider.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Provider, e.Reason)
}

// ProviderError reports an unreachable or misbehaving external provider
// (network failure, timeout, non-2xx). Callers recover by falling back to
// the next provider or a default value.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PortfolioError records a per-wallet or per-asset failure inside an
// otherwise successful cycle. It is surfaced alongside the snapshot, never
// instead of it.
type PortfolioError struct {
	WalletAddress string `json:"walletAddress"`
	AssetID       string `json:"assetId,omitempty"`
	Message       string `json:"message"`
}

// ConversionError reports that a snapshot could not be converted into the
// requested display currency. Conversion degrades to the USD snapshot.
type ConversionError struct {
	Currency string
	Reason   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion to %s unavailable: %s", e.Currency, e.Reason)
}
