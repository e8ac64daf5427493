package entity

// Wallet is a tracked wallet. Identity is the address; ID is only a stable
// handle for the presentation layer.
type Wallet struct {
	ID          string `json:"id" yaml:"id"`
	Address     string `json:"address" yaml:"address"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}
