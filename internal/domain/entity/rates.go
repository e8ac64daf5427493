package entity

import "github.com/samber/lo"

// RateDateLayout is the calendar-date key used to decide whether a cached
// rate table is still valid. Local date, not a rolling 24h window.
const RateDateLayout = "2006-01-02"

// ExchangeRateTable maps currency codes to USD-relative multipliers.
// Invariant: Rates["USD"] == 1.0.
type ExchangeRateTable struct {
	BaseCurrency string             `json:"baseCurrency"`
	Rates        map[string]float64 `json:"rates"`
	FetchedOn    string             `json:"fetchedOn"`
}

// Rate returns the multiplier for a currency code.
func (t ExchangeRateTable) Rate(currency string) (float64, bool) {
	rate, ok := t.Rates[currency]
	return rate, ok
}

// DefaultRateTable returns the hardcoded approximate table used when the
// rate provider is unreachable. It deliberately has no FetchedOn date so it
// is never mistaken for today's authoritative data.
func DefaultRateTable() ExchangeRateTable {
	return ExchangeRateTable{
		BaseCurrency: "USD",
		Rates: map[string]float64{
			"USD": 1.0,
			"EUR": 0.85,
			"GBP": 0.73,
			"JPY": 110.0,
			"CAD": 1.25,
			"AUD": 1.35,
			"CHF": 0.92,
			"CNY": 6.45,
		},
	}
}

// Currency describes one supported display currency.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SupportedCurrencies lists the display currencies the presentation layer
// can select.
func SupportedCurrencies() []Currency {
	return []Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "GBP", Name: "British Pound", Symbol: "£"},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
		{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr"},
		{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	}
}

// IsSupportedCurrency reports whether a code is one of the supported display
// currencies.
func IsSupportedCurrency(code string) bool {
	return lo.ContainsBy(SupportedCurrencies(), func(c Currency) bool {
		return c.Code == code
	})
}

// CurrencySymbol returns the display symbol for a currency code, or the code
// itself when unknown.
func CurrencySymbol(code string) string {
	for _, c := range SupportedCurrencies() {
		if c.Code == code {
			return c.Symbol
		}
	}
	return code
}
