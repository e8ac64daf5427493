package service

import (
	"context"
	"sync"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

const rateTableKey = "exchange-rates"

// RateCacheImpl implements port.RateProvider with a calendar-day cache: the
// upstream is hit at most once per local date, the table is persisted so a
// restart on the same day reuses it, and an upstream failure falls back to a
// hardcoded approximate table that is never cached or persisted.
type RateCacheImpl struct {
	source port.RateSource
	kv     port.KeyValueStore
	logger port.Logger
	now    func() time.Time

	mu     sync.Mutex
	cached *entity.ExchangeRateTable
}

// NewRateCache creates a new RateCacheImpl.
func NewRateCache(source port.RateSource, kv port.KeyValueStore, l port.Logger) *RateCacheImpl {
	return &RateCacheImpl{
		source: source,
		kv:     kv,
		logger: l,
		now:    time.Now,
	}
}

// GetRates returns a usable rate table, never an error: a stale cache and a
// failed fetch degrade to the default table.
func (s *RateCacheImpl) GetRates(ctx context.Context) entity.ExchangeRateTable {
	today := s.now().Format(entity.RateDateLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.cached.FetchedOn == today {
		return *s.cached
	}

	var persisted entity.ExchangeRateTable
	if found, err := s.kv.Get(rateTableKey, &persisted); err == nil && found && persisted.FetchedOn == today {
		s.cached = &persisted
		return persisted
	}

	rates, err := s.source.FetchRates(ctx)
	if err != nil {
		s.logger.Warn("Exchange rate fetch failed, using default rates", "error", err)
		return entity.DefaultRateTable()
	}

	rates["USD"] = 1.0
	table := entity.ExchangeRateTable{
		BaseCurrency: "USD",
		Rates:        rates,
		FetchedOn:    today,
	}
	s.cached = &table
	if err := s.kv.Set(rateTableKey, table); err != nil {
		s.logger.Warn("Failed to persist exchange rates", "error", err)
	}
	s.logger.Info("Fetched exchange rates", "date", today, "currencies", len(rates))
	return table
}

var _ port.RateProvider = (*RateCacheImpl)(nil)
