package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/logger"
)

type fakeRateProvider struct {
	table entity.ExchangeRateTable
}

func (f *fakeRateProvider) GetRates(_ context.Context) entity.ExchangeRateTable { return f.table }

func usdSnapshot() entity.PortfolioSnapshot {
	return entity.PortfolioSnapshot{
		TotalValue: decimal.NewFromInt(100),
		Currency:   "USD",
		Holdings: []entity.Holding{
			{AssetID: "mint-a", Symbol: "TOKA", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10), Value: decimal.NewFromInt(100)},
		},
		CapturedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestConvertUSDReturnsInputUnchanged(t *testing.T) {
	svc := NewCurrencyService(&fakeRateProvider{}, logger.NewSlogAdapter())

	snapshot := usdSnapshot()
	converted := svc.Convert(context.Background(), snapshot, "USD")
	require.Equal(t, snapshot, converted)
}

func TestConvertScalesTotalsAndHoldings(t *testing.T) {
	provider := &fakeRateProvider{table: entity.ExchangeRateTable{
		BaseCurrency: "USD",
		Rates:        map[string]float64{"USD": 1.0, "EUR": 0.85},
	}}
	svc := NewCurrencyService(provider, logger.NewSlogAdapter())

	original := usdSnapshot()
	converted := svc.Convert(context.Background(), original, "EUR")

	require.Equal(t, "EUR", converted.Currency)
	require.True(t, converted.TotalValue.Equal(decimal.NewFromInt(85)))
	require.True(t, converted.Holdings[0].Value.Equal(decimal.NewFromInt(85)))
	require.True(t, converted.Holdings[0].UnitPrice.Equal(decimal.NewFromFloat(8.5)))
	require.True(t, converted.Holdings[0].Quantity.Equal(decimal.NewFromInt(10)), "quantities never change")

	require.Equal(t, "USD", original.Currency, "the input snapshot is not mutated")
	require.True(t, original.TotalValue.Equal(decimal.NewFromInt(100)))
}

func TestConvertUnknownCurrencyKeepsUSD(t *testing.T) {
	provider := &fakeRateProvider{table: entity.ExchangeRateTable{
		BaseCurrency: "USD",
		Rates:        map[string]float64{"USD": 1.0},
	}}
	svc := NewCurrencyService(provider, logger.NewSlogAdapter())

	snapshot := usdSnapshot()
	converted := svc.Convert(context.Background(), snapshot, "XXX")
	require.Equal(t, snapshot, converted)
}

type fakeRateSource struct {
	rates map[string]float64
	err   error
	calls int
}

func (f *fakeRateSource) FetchRates(_ context.Context) (map[string]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	copied := make(map[string]float64, len(f.rates))
	for k, v := range f.rates {
		copied[k] = v
	}
	return copied, nil
}

func newTestRateCache(source *fakeRateSource, kv *memoryKV, now time.Time) *RateCacheImpl {
	cache := NewRateCache(source, kv, logger.NewSlogAdapter())
	cache.now = func() time.Time { return now }
	return cache
}

func TestRateCacheFetchesOncePerCalendarDay(t *testing.T) {
	source := &fakeRateSource{rates: map[string]float64{"EUR": 0.9}}
	day := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	cache := newTestRateCache(source, newMemoryKV(), day)

	first := cache.GetRates(context.Background())
	second := cache.GetRates(context.Background())
	require.Equal(t, 1, source.calls)
	require.Equal(t, first, second)
	require.Equal(t, "2026-08-30", first.FetchedOn)
	require.Equal(t, 1.0, first.Rates["USD"], "USD is always pinned to 1")
}

func TestRateCacheRefetchesOnNewDay(t *testing.T) {
	source := &fakeRateSource{rates: map[string]float64{"EUR": 0.9}}
	kv := newMemoryKV()
	day1 := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	cache := newTestRateCache(source, kv, day1)

	cache.GetRates(context.Background())
	cache.now = func() time.Time { return day1.Add(2 * time.Hour) } // past midnight
	cache.GetRates(context.Background())
	require.Equal(t, 2, source.calls, "a new calendar date invalidates the cache")
}

func TestRateCacheReusesPersistedTableAcrossRestarts(t *testing.T) {
	source := &fakeRateSource{rates: map[string]float64{"EUR": 0.9}}
	kv := newMemoryKV()
	day := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	newTestRateCache(source, kv, day).GetRates(context.Background())

	// A fresh instance over the same store models a process restart.
	reopened := newTestRateCache(source, kv, day)
	table := reopened.GetRates(context.Background())
	require.Equal(t, 1, source.calls, "the persisted table serves the same day")
	require.Equal(t, 0.9, table.Rates["EUR"])
}

func TestRateCacheFallsBackToDefaultsWithoutCaching(t *testing.T) {
	source := &fakeRateSource{err: errors.New("unreachable")}
	kv := newMemoryKV()
	day := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	cache := newTestRateCache(source, kv, day)

	table := cache.GetRates(context.Background())
	require.Empty(t, table.FetchedOn, "default rates must not masquerade as fetched")
	require.Equal(t, entity.DefaultRateTable(), table)

	var persisted entity.ExchangeRateTable
	found, err := kv.Get(rateTableKey, &persisted)
	require.NoError(t, err)
	require.False(t, found, "default rates are never persisted")

	cache.GetRates(context.Background())
	require.Equal(t, 2, source.calls, "the upstream is retried on the next call")

	// Once the upstream recovers, the real table replaces the defaults.
	source.err = nil
	recovered := cache.GetRates(context.Background())
	require.Equal(t, "2026-08-30", recovered.FetchedOn)
}
