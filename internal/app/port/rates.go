package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// RateSource fetches a fresh exchange-rate table from the external provider.
type RateSource interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// RateSourceFunc adapts a plain function to RateSource.
type RateSourceFunc func(ctx context.Context) (map[string]float64, error)

func (f RateSourceFunc) FetchRates(ctx context.Context) (map[string]float64, error) {
	return f(ctx)
}

// RateProvider serves the USD-based exchange-rate table, cached per local
// calendar day.
type RateProvider interface {
	GetRates(ctx context.Context) entity.ExchangeRateTable
}

// CurrencyConverter projects a USD snapshot into a display currency without
// mutating the input.
type CurrencyConverter interface {
	Convert(ctx context.Context, snapshot entity.PortfolioSnapshot, targetCurrency string) entity.PortfolioSnapshot
}
