package entity

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestHoldingMergeKey(t *testing.T) {
	withSymbol := Holding{AssetID: "mint-1", Symbol: "BONK"}
	require.Equal(t, "BONK", withSymbol.MergeKey())

	withoutSymbol := Holding{AssetID: "mint-1"}
	require.Equal(t, "mint-1", withoutSymbol.MergeKey())
}

func TestHoldingMergeSumsQuantityAndValue(t *testing.T) {
	a := Holding{
		AssetID:   "mint-1",
		Symbol:    "BONK",
		Quantity:  decimal.NewFromInt(100),
		UnitPrice: decimal.NewFromFloat(0.5),
		Value:     decimal.NewFromInt(50),
		Decimals:  5,
	}
	b := Holding{
		AssetID:  "mint-1",
		Symbol:   "BONK",
		Quantity: decimal.NewFromInt(40),
		Value:    decimal.NewFromInt(20),
	}

	merged := a.Merge(b)
	require.True(t, merged.Quantity.Equal(decimal.NewFromInt(140)))
	require.True(t, merged.Value.Equal(decimal.NewFromInt(70)))
	require.True(t, merged.UnitPrice.Equal(a.UnitPrice), "unit price of the receiver is kept")
	require.Equal(t, uint8(5), merged.Decimals)
}

func TestHoldingMergeFillsMissingMetadata(t *testing.T) {
	bare := Holding{AssetID: "mint-1", Quantity: decimal.NewFromInt(1)}
	named := Holding{AssetID: "mint-1", Symbol: "WIF", DisplayName: "dogwifhat", Quantity: decimal.NewFromInt(2)}

	merged := bare.Merge(named)
	require.Equal(t, "WIF", merged.Symbol)
	require.Equal(t, "dogwifhat", merged.DisplayName)
}

func genHolding() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(0, 1_000_000_000),
	).Map(func(vals []interface{}) Holding {
		return Holding{
			AssetID:  "mint-1",
			Symbol:   "TOK",
			Quantity: decimal.NewFromInt(vals[0].(int64)).Shift(-4),
			Value:    decimal.NewFromInt(vals[1].(int64)).Shift(-4),
		}
	})
}

func TestHoldingMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge is commutative in quantity and value", prop.ForAll(
		func(a, b Holding) bool {
			ab := a.Merge(b)
			ba := b.Merge(a)
			return ab.Quantity.Equal(ba.Quantity) && ab.Value.Equal(ba.Value)
		},
		genHolding(), genHolding(),
	))

	properties.Property("merge is associative in quantity and value", prop.ForAll(
		func(a, b, c Holding) bool {
			left := a.Merge(b).Merge(c)
			right := a.Merge(b.Merge(c))
			return left.Quantity.Equal(right.Quantity) && left.Value.Equal(right.Value)
		},
		genHolding(), genHolding(), genHolding(),
	))

	properties.TestingRun(t)
}
