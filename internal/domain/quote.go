package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is a single bond price produced by one fetch attempt.
// Immutable once created; discarded after the cache TTL.
type PriceQuote struct {
	Value     decimal.Decimal `json:"value"`
	Source    Source          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewPriceQuote creates a quote stamped with the current time.
func NewPriceQuote(value decimal.Decimal, source Source) PriceQuote {
	return PriceQuote{Value: value, Source: source, FetchedAt: time.Now()}
}

// YieldQuote is the reference US Treasury yield, in percent.
type YieldQuote struct {
	Value     decimal.Decimal `json:"value"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewYieldQuote creates a yield quote stamped with the current time.
func NewYieldQuote(value decimal.Decimal) YieldQuote {
	return YieldQuote{Value: value, FetchedAt: time.Now()}
}
