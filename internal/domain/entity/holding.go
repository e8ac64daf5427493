package entity

import "github.com/shopspring/decimal"

// Holding is one merged position across all wallets.
type Holding struct {
	AssetID     string          `json:"assetId"`
	Symbol      string          `json:"symbol"`
	DisplayName string          `json:"displayName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Value       decimal.Decimal `json:"value"`
	Decimals    uint8           `json:"decimals"`
}

// MergeKey is the key holdings are folded under when positions from several
// wallets are combined: the symbol when known, otherwise the asset id.
func (h Holding) MergeKey() string {
	if h.Symbol != "" {
		return h.Symbol
	}
	return h.AssetID
}

// Merge combines two holdings of the same asset by summing quantity and
// value. The unit price and metadata of the receiver are kept; the operation
// is commutative in quantity and value, which is what aggregation relies on.
func (h Holding) Merge(other Holding) Holding {
	h.Quantity = h.Quantity.Add(other.Quantity)
	h.Value = h.Value.Add(other.Value)
	if h.Symbol == "" {
		h.Symbol = other.Symbol
	}
	if h.DisplayName == "" {
		h.DisplayName = other.DisplayName
	}
	return h
}
