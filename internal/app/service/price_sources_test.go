package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/domain/entity"
	apientity "portfolio_tracker/internal/entity"
	"portfolio_tracker/internal/pkg/logger"
)

type fakeDEXScreenerClient struct {
	pairs []apientity.PairData
	err   error
	calls int
}

func (f *fakeDEXScreenerClient) GetTokenPairs(_ context.Context, _ []string) ([]apientity.PairData, error) {
	f.calls++
	return f.pairs, f.err
}

type fakeJupiterClient struct {
	prices map[string]*apientity.JupiterPrice
	err    error
}

func (f *fakeJupiterClient) GetPrices(_ context.Context, mints []string) (map[string]*apientity.JupiterPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]*apientity.JupiterPrice)
	for _, mint := range mints {
		result[mint] = f.prices[mint]
	}
	return result, nil
}

func pair(mint, priceUsd string, liquidityUsd float64, symbol string) apientity.PairData {
	return apientity.PairData{
		BaseToken: apientity.DEXToken{Address: mint, Symbol: symbol},
		PriceUsd:  priceUsd,
		Liquidity: &apientity.DEXLiquidity{Usd: liquidityUsd},
	}
}

func TestDEXScreenerSourcePicksDeepestLiquidityPair(t *testing.T) {
	client := &fakeDEXScreenerClient{pairs: []apientity.PairData{
		pair("mint-a", "1.00", 500, "TOKA"),
		pair("mint-a", "1.10", 5000, "TOKA"),
		pair("mint-a", "0.90", 200, "TOKA"),
	}}

	source := NewDEXScreenerSource(client, testConfig(), logger.NewSlogAdapter())

	quotes, err := source.Quotes(context.Background(), []string{"mint-a"})
	require.NoError(t, err)
	require.True(t, quotes["mint-a"].PriceUSD.Equal(decimal.NewFromFloat(1.10)))
	require.Equal(t, float64(5000), quotes["mint-a"].LiquidityUSD)
}

func TestDEXScreenerSourceLiquidityTiesKeepFirstPair(t *testing.T) {
	client := &fakeDEXScreenerClient{pairs: []apientity.PairData{
		pair("mint-a", "1.00", 1000, "TOKA"),
		pair("mint-a", "2.00", 1000, "TOKA"),
	}}

	source := NewDEXScreenerSource(client, testConfig(), logger.NewSlogAdapter())

	quotes, err := source.Quotes(context.Background(), []string{"mint-a"})
	require.NoError(t, err)
	require.True(t, quotes["mint-a"].PriceUSD.Equal(decimal.NewFromFloat(1.00)))
}

func TestDEXScreenerSourceIgnoresUnrequestedAndUnpricedPairs(t *testing.T) {
	client := &fakeDEXScreenerClient{pairs: []apientity.PairData{
		pair("mint-other", "5.00", 9000, "OTHER"),
		pair("mint-a", "", 1000, "TOKA"),
		{BaseToken: apientity.DEXToken{Address: "mint-a", Symbol: "TOKA"}, PriceUsd: "0"},
	}}

	source := NewDEXScreenerSource(client, testConfig(), logger.NewSlogAdapter())

	quotes, err := source.Quotes(context.Background(), []string{"mint-a"})
	require.NoError(t, err)
	require.Empty(t, quotes)
}

func TestDEXScreenerSourceMatchesMintsCaseSensitively(t *testing.T) {
	// A pair whose base token differs from the requested mint only in case
	// is a different mint and must not be attributed to the request.
	client := &fakeDEXScreenerClient{pairs: []apientity.PairData{
		pair("mint-A", "1.50", 1000, "TOKA"),
	}}

	source := NewDEXScreenerSource(client, testConfig(), logger.NewSlogAdapter())

	quotes, err := source.Quotes(context.Background(), []string{"mint-a"})
	require.NoError(t, err)
	require.Empty(t, quotes)
}

func TestDEXScreenerSourceBatchesRequests(t *testing.T) {
	client := &fakeDEXScreenerClient{}
	cfg := testConfig()
	cfg.PriceResolver.MaxMintsPerBatchRequest = 2

	source := NewDEXScreenerSource(client, cfg, logger.NewSlogAdapter())

	_, err := source.Quotes(context.Background(), []string{"m1", "m2", "m3", "m4", "m5"})
	require.NoError(t, err)
	require.Equal(t, 3, client.calls)
}

func TestJupiterSourceParsesPricesWithoutLiquidity(t *testing.T) {
	client := &fakeJupiterClient{prices: map[string]*apientity.JupiterPrice{
		"mint-a": {ID: "mint-a", MintSymbol: "TOKA", Price: "0.0042"},
		"mint-b": nil, // unknown mints arrive as null entries
	}}

	source := NewJupiterSource(client, testConfig(), logger.NewSlogAdapter())

	quotes, err := source.Quotes(context.Background(), []string{"mint-a", "mint-b"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.True(t, quotes["mint-a"].PriceUSD.Equal(decimal.NewFromFloat(0.0042)))
	require.Zero(t, quotes["mint-a"].LiquidityUSD)
}

func TestMoralisSourceRequiresValidKey(t *testing.T) {
	cfg := testConfig()
	cfg.Moralis.APIKey = "garbage"

	source := NewMoralisSource(&fakeMoralisClient{}, cfg, logger.NewSlogAdapter())

	_, err := source.Quotes(context.Background(), []string{"mint-a"})
	var confErr *entity.ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestMoralisSourceContinuesPastPerMintFailures(t *testing.T) {
	client := &fakeMoralisClient{
		prices: map[string]apientity.MoralisTokenPrice{
			"mint-b": {UsdPrice: 7.5, TokenSymbol: "TOKB"},
		},
		priceErrs: map[string]error{"mint-a": errors.New("not listed")},
	}

	source := NewMoralisSource(client, testConfig(), logger.NewSlogAdapter())

	quotes, err := source.Quotes(context.Background(), []string{"mint-a", "mint-b"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.True(t, quotes["mint-b"].PriceUSD.Equal(decimal.NewFromFloat(7.5)))
}
