package entity

import "github.com/shopspring/decimal"

// TokenBalance is one fungible token position as reported by the token-index
// provider. Symbol, name and decimals are optional in the provider response.
type TokenBalance struct {
	Mint     string
	Quantity decimal.Decimal
	Symbol   string
	Name     string
	Decimals uint8
}

// WalletBalances is everything the balance collector returns for one wallet:
// the native balance in whole SOL plus the token positions with non-positive
// quantities already dropped.
type WalletBalances struct {
	WalletAddress string
	NativeBalance decimal.Decimal
	Tokens        []TokenBalance
}

// AssetIDs returns the set of identifiers that need pricing for this wallet.
// The native sentinel mint is included only when the wallet holds any SOL.
func (b WalletBalances) AssetIDs() []string {
	ids := make([]string, 0, len(b.Tokens)+1)
	if b.NativeBalance.IsPositive() {
		ids = append(ids, SOLMint)
	}
	for _, t := range b.Tokens {
		ids = append(ids, t.Mint)
	}
	return ids
}
