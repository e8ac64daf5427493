package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// CurrencyServiceImpl implements port.CurrencyConverter over a rate
// provider. Conversion is presentation-only: the input snapshot is assumed
// USD-denominated and is never mutated.
type CurrencyServiceImpl struct {
	rates  port.RateProvider
	logger port.Logger
}

// NewCurrencyService creates a new CurrencyServiceImpl.
func NewCurrencyService(rates port.RateProvider, l port.Logger) port.CurrencyConverter {
	return &CurrencyServiceImpl{rates: rates, logger: l}
}

// Convert rescales a USD snapshot into the target currency. USD and unknown
// currencies return the input unchanged; an unknown currency is logged, not
// an error, so the portfolio keeps rendering.
func (s *CurrencyServiceImpl) Convert(ctx context.Context, snapshot entity.PortfolioSnapshot, targetCurrency string) entity.PortfolioSnapshot {
	if targetCurrency == "" || targetCurrency == "USD" {
		return snapshot
	}

	table := s.rates.GetRates(ctx)
	rate, ok := table.Rate(targetCurrency)
	if !ok || rate <= 0 {
		s.logger.Warn("No exchange rate for currency, keeping USD", "currency", targetCurrency)
		return snapshot
	}

	multiplier := decimal.NewFromFloat(rate)
	converted := snapshot
	converted.Currency = targetCurrency
	converted.TotalValue = snapshot.TotalValue.Mul(multiplier)
	converted.Holdings = lo.Map(snapshot.Holdings, func(h entity.Holding, _ int) entity.Holding {
		h.UnitPrice = h.UnitPrice.Mul(multiplier)
		h.Value = h.Value.Mul(multiplier)
		return h
	})
	return converted
}

var _ port.CurrencyConverter = (*CurrencyServiceImpl)(nil)
