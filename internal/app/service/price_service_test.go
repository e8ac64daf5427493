package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/logger"
)

type fakePriceSource struct {
	name   string
	quotes map[string]entity.PriceQuote
	err    error

	calls     int
	requested [][]string
}

func (f *fakePriceSource) Name() string { return f.name }

func (f *fakePriceSource) Quotes(_ context.Context, assetIDs []string) (map[string]entity.PriceQuote, error) {
	f.calls++
	f.requested = append(f.requested, append([]string(nil), assetIDs...))
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]entity.PriceQuote)
	for _, id := range assetIDs {
		if q, ok := f.quotes[id]; ok {
			result[id] = q
		}
	}
	return result, nil
}

func quoteFor(id string, price float64) entity.PriceQuote {
	return entity.PriceQuote{AssetID: id, PriceUSD: decimal.NewFromFloat(price)}
}

func TestResolvePricesLaterSourcesOnlySeeUnresolvedAssets(t *testing.T) {
	primary := &fakePriceSource{name: "primary", quotes: map[string]entity.PriceQuote{
		"mint-a": quoteFor("mint-a", 1.5),
	}}
	secondary := &fakePriceSource{name: "secondary", quotes: map[string]entity.PriceQuote{
		"mint-a": quoteFor("mint-a", 99),
		"mint-b": quoteFor("mint-b", 2.5),
	}}

	resolver := NewPriceService([]port.PriceSource{primary, secondary}, testConfig(), logger.NewSlogAdapter())

	quotes := resolver.ResolvePrices(context.Background(), []string{"mint-a", "mint-b"})
	require.Len(t, quotes, 2)
	require.True(t, quotes["mint-a"].PriceUSD.Equal(decimal.NewFromFloat(1.5)),
		"the earlier source's quote must win")
	require.True(t, quotes["mint-b"].PriceUSD.Equal(decimal.NewFromFloat(2.5)))

	require.Equal(t, [][]string{{"mint-b"}}, secondary.requested,
		"the fallback must only be asked about unresolved assets")
}

func TestResolvePricesStopsWhenNothingIsLeft(t *testing.T) {
	primary := &fakePriceSource{name: "primary", quotes: map[string]entity.PriceQuote{
		"mint-a": quoteFor("mint-a", 1),
	}}
	unusedFallback := &fakePriceSource{name: "fallback"}

	resolver := NewPriceService([]port.PriceSource{primary, unusedFallback}, testConfig(), logger.NewSlogAdapter())

	resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	require.Zero(t, unusedFallback.calls, "a fully resolved chain must not query further sources")
}

func TestResolvePricesSourceFailureFallsThrough(t *testing.T) {
	broken := &fakePriceSource{name: "broken", err: errors.New("boom")}
	fallback := &fakePriceSource{name: "fallback", quotes: map[string]entity.PriceQuote{
		"mint-a": quoteFor("mint-a", 3),
	}}

	resolver := NewPriceService([]port.PriceSource{broken, fallback}, testConfig(), logger.NewSlogAdapter())

	quotes := resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	require.Len(t, quotes, 1)
	require.True(t, quotes["mint-a"].PriceUSD.Equal(decimal.NewFromInt(3)))
}

func TestResolvePricesUnpricedAssetsAreAbsent(t *testing.T) {
	empty := &fakePriceSource{name: "empty"}

	resolver := NewPriceService([]port.PriceSource{empty}, testConfig(), logger.NewSlogAdapter())

	quotes := resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	require.Empty(t, quotes)
}

func TestResolvePricesServesCachedQuotes(t *testing.T) {
	source := &fakePriceSource{name: "primary", quotes: map[string]entity.PriceQuote{
		"mint-a": quoteFor("mint-a", 1),
	}}
	cfg := testConfig()
	cfg.PriceResolver.QuoteCacheTTLSeconds = 60

	resolver := NewPriceService([]port.PriceSource{source}, cfg, logger.NewSlogAdapter())

	resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	require.Equal(t, 1, source.calls, "the second resolution must be served from cache")
}

func TestResolvePricesFetchesFreshQuotesByDefault(t *testing.T) {
	source := &fakePriceSource{name: "primary", quotes: map[string]entity.PriceQuote{
		"mint-a": quoteFor("mint-a", 1),
	}}

	// testConfig leaves the quote cache TTL at its default of zero, so
	// every refresh cycle gets current prices.
	resolver := NewPriceService([]port.PriceSource{source}, testConfig(), logger.NewSlogAdapter())

	resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	resolver.ResolvePrices(context.Background(), []string{"mint-a"})
	require.Equal(t, 2, source.calls)
}
