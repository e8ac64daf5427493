package port

// SettingsStore persists user-facing preferences.
type SettingsStore interface {
	// SelectedCurrency returns the display currency, defaulting to USD.
	SelectedCurrency() string
	SetSelectedCurrency(code string) error

	// Credentials returns the persisted provider API keys, if any.
	Credentials() (heliusKey, moralisKey string, found bool)
	// SetCredentials persists provider API keys after shape validation.
	// Persisted keys take precedence over the config file on next startup.
	SetCredentials(heliusKey, moralisKey string) error
}
