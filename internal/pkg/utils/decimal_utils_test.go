package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLamportsToSOL(t *testing.T) {
	require.Equal(t, "1", LamportsToSOL(1_000_000_000).String())
	require.Equal(t, "2.5", LamportsToSOL(2_500_000_000).String())
	require.Equal(t, "0.000000001", LamportsToSOL(1).String())
	require.True(t, LamportsToSOL(0).IsZero())
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("12.5")
	require.NoError(t, err)
	require.Equal(t, "12.5", q.String())

	q, err = ParseQuantity("")
	require.NoError(t, err)
	require.True(t, q.IsZero())

	_, err = ParseQuantity("twelve")
	require.Error(t, err)
}

func TestFormatTotal(t *testing.T) {
	require.Equal(t, "$325.00", FormatTotal(decimal.NewFromInt(325), "USD"))
	require.Equal(t, "€85.50", FormatTotal(decimal.NewFromFloat(85.5), "EUR"))
	require.Equal(t, "XXX1.23", FormatTotal(decimal.NewFromFloat(1.234), "XXX"))
}

func TestBatchStrings(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	batches := BatchStrings(items, 2)
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches)

	require.Equal(t, [][]string{items}, BatchStrings(items, 10))
	require.Empty(t, BatchStrings(nil, 2))
}
