package utils

import (
	"fmt"

	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/domain/entity"
)

var lamportsPerSOL = decimal.NewFromInt(entity.LamportsPerSOL)

// LamportsToSOL converts an atomic lamport amount to whole SOL.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSOL)
}

// ParseQuantity parses a provider-supplied decimal string. Empty strings
// parse as zero; anything else malformed is an error.
func ParseQuantity(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse quantity %q: %w", s, err)
	}
	return q, nil
}

// FormatTotal renders a converted portfolio total for the notification
// surface, e.g. "€1234.56".
func FormatTotal(total decimal.Decimal, currency string) string {
	return entity.CurrencySymbol(currency) + total.StringFixed(2)
}
