package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultRateTable(t *testing.T) {
	table := DefaultRateTable()

	usd, ok := table.Rate("USD")
	require.True(t, ok)
	require.Equal(t, 1.0, usd)

	require.Empty(t, table.FetchedOn, "default table must never look like fetched data")

	_, ok = table.Rate("XXX")
	require.False(t, ok)
}

func TestIsSupportedCurrency(t *testing.T) {
	require.True(t, IsSupportedCurrency("USD"))
	require.True(t, IsSupportedCurrency("JPY"))
	require.False(t, IsSupportedCurrency("usd"), "codes are case sensitive")
	require.False(t, IsSupportedCurrency("XXX"))
}

func TestCurrencySymbol(t *testing.T) {
	require.Equal(t, "€", CurrencySymbol("EUR"))
	require.Equal(t, "$", CurrencySymbol("USD"))
	require.Equal(t, "XXX", CurrencySymbol("XXX"), "unknown codes fall back to the code")
}

func TestWalletBalancesAssetIDs(t *testing.T) {
	withNative := WalletBalances{
		NativeBalance: decimal.NewFromInt(2),
		Tokens:        []TokenBalance{{Mint: "mint-1"}},
	}
	require.Equal(t, []string{SOLMint, "mint-1"}, withNative.AssetIDs())

	withoutNative := WalletBalances{Tokens: []TokenBalance{{Mint: "mint-1"}}}
	require.Equal(t, []string{"mint-1"}, withoutNative.AssetIDs())
}
