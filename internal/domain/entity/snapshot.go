package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is one fully computed aggregation result. Snapshots are
// immutable once produced; currency conversion builds a new snapshot and the
// USD form stays the canonical persisted one.
type PortfolioSnapshot struct {
	TotalValue decimal.Decimal `json:"totalValue"`
	Currency   string          `json:"currency"`
	Holdings   []Holding       `json:"holdings"`
	CapturedAt time.Time       `json:"capturedAt"`
}

// ZeroSnapshot returns an empty USD snapshot captured at the given time.
func ZeroSnapshot(capturedAt time.Time) PortfolioSnapshot {
	return PortfolioSnapshot{
		TotalValue: decimal.Zero,
		Currency:   "USD",
		Holdings:   []Holding{},
		CapturedAt: capturedAt,
	}
}
