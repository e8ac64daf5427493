package entity

// JupiterPriceResponse is the response of the Jupiter price endpoint: a map
// from mint address to price record. Entries for unknown mints are null.
type JupiterPriceResponse struct {
	Data map[string]*JupiterPrice `json:"data"`
}

// JupiterPrice is one priced mint. Price arrives as a decimal string.
type JupiterPrice struct {
	ID         string `json:"id"`
	MintSymbol string `json:"mintSymbol"`
	Price      string `json:"price"`
}
