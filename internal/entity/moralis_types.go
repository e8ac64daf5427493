package entity

// MoralisTokenHolding is one SPL token position from the token-index
// endpoint. Amount is a decimal string already scaled to whole tokens.
type MoralisTokenHolding struct {
	Mint     string `json:"mint"`
	Amount   string `json:"amount"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// MoralisTokenPrice is the response of the per-mint price endpoint.
type MoralisTokenPrice struct {
	UsdPrice    float64 `json:"usdPrice"`
	TokenSymbol string  `json:"tokenSymbol"`
	TokenName   string  `json:"tokenName"`
}
