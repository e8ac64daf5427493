package entity

// ExchangeRateResponse is the response of the exchange-rate provider: a flat
// mapping of currency code to USD-relative multiplier.
type ExchangeRateResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
