package entity

import "github.com/shopspring/decimal"

// PriceQuote is a per-cycle USD quote for one asset from one provider.
// LiquidityUSD is market depth and is only a tie-break signal; providers that
// do not report it leave it at zero.
type PriceQuote struct {
	AssetID      string
	PriceUSD     decimal.Decimal
	LiquidityUSD float64
	Symbol       string
	DisplayName  string
	Source       string
}
