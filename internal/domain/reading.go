package domain

import "time"

// RiskLevel buckets a spread into the bands shown on the dashboard.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Band thresholds in basis points.
const (
	lowBandMaxBps    = 1500.0
	mediumBandMaxBps = 2500.0
)

// LevelFor returns the risk band for a spread in basis points.
func LevelFor(spreadBps float64) RiskLevel {
	switch {
	case spreadBps < lowBandMaxBps:
		return RiskLow
	case spreadBps < mediumBandMaxBps:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskReading is one derived country-risk observation. Never mutated after
// creation; every refresh produces a fresh reading.
type RiskReading struct {
	SpreadBps      float64   `json:"spread_bps"`
	ApproxArgYield float64   `json:"approx_arg_yield"`
	USYield        float64   `json:"us_yield"`
	ArgPrice       float64   `json:"arg_price"`
	SourceUsed     Source    `json:"source_used"`
	Level          RiskLevel `json:"level"`
	ComputedAt     time.Time `json:"computed_at"`
}

// RiskReadingRecord bundles a reading with its store index.
type RiskReadingRecord struct {
	Index   uint64
	Reading RiskReading
}
