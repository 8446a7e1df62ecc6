// Package risk derives the country-risk reading from a bond price and the
// US 10Y yield, and builds the historical spread series for charting.
package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"riesgopais/internal/cache"
	"riesgopais/internal/domain"
	"riesgopais/internal/sources"
)

// ErrUnavailable signals that no well-formed reading could be produced.
// The dashboard turns it into a "no data" panel with a hint to switch
// source or supply a manual price.
var ErrUnavailable = errors.New("risk reading unavailable")

const (
	// DefaultLiveTTL throttles the cheap live reading.
	DefaultLiveTTL = 60 * time.Second
	// DefaultHistoryTTL throttles the expensive 5-year history pull.
	DefaultHistoryTTL = 600 * time.Second
)

// PriceResolver abstracts the fallback chain.
type PriceResolver interface {
	Resolve(ctx context.Context, symbol string, pref domain.Preference) (domain.PriceQuote, error)
}

// HistorySource provides daily close series for the history computation.
type HistorySource interface {
	DailyCloses(ctx context.Context, symbol, rng string) ([]sources.ClosePoint, error)
}

// Service computes current readings and historical series. All fetches go
// through tiered TTL caches keyed by symbol and preference.
type Service struct {
	resolver   PriceResolver
	yield      sources.YieldSource
	history    HistorySource
	symbol     string
	pref       domain.Preference
	liveTTL    time.Duration
	historyTTL time.Duration
	logger     *zap.Logger

	liveCache    *cache.Cache[domain.RiskReading]
	historyCache *cache.Cache[[]domain.HistoryPoint]
}

// Option configures the Service.
type Option func(*Service)

// WithLiveTTL overrides the live reading cache TTL.
func WithLiveTTL(ttl time.Duration) Option {
	return func(s *Service) { s.liveTTL = ttl }
}

// WithHistoryTTL overrides the historical series cache TTL.
func WithHistoryTTL(ttl time.Duration) Option {
	return func(s *Service) { s.historyTTL = ttl }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the calculator to its collaborators.
func NewService(resolver PriceResolver, yield sources.YieldSource, history HistorySource,
	symbol string, pref domain.Preference, opts ...Option) *Service {
	s := &Service{
		resolver:     resolver,
		yield:        yield,
		history:      history,
		symbol:       symbol,
		pref:         pref,
		liveTTL:      DefaultLiveTTL,
		historyTTL:   DefaultHistoryTTL,
		logger:       zap.NewNop(),
		liveCache:    cache.New[domain.RiskReading](),
		historyCache: cache.New[[]domain.HistoryPoint](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentReading returns the live country-risk reading, cached per
// (symbol, preference) for the live TTL.
func (s *Service) CurrentReading(ctx context.Context) (domain.RiskReading, error) {
	key := fmt.Sprintf("live|%s|%s", s.symbol, s.pref)
	return s.liveCache.GetOrFetch(key, s.liveTTL, func() (domain.RiskReading, error) {
		return s.computeReading(ctx)
	})
}

func (s *Service) computeReading(ctx context.Context) (domain.RiskReading, error) {
	// price and yield legs fail independently; either missing means no
	// reading at all, never a partial one
	quote, priceErr := s.resolver.Resolve(ctx, s.symbol, s.pref)
	yield, yieldErr := s.yield.FetchYield(ctx)

	if priceErr != nil {
		return domain.RiskReading{}, errors.Wrapf(ErrUnavailable, "no price for %s: %v", s.symbol, priceErr)
	}
	if yieldErr != nil {
		return domain.RiskReading{}, errors.Wrapf(ErrUnavailable, "no treasury yield: %v", yieldErr)
	}

	price, _ := quote.Value.Float64()
	usYield, _ := yield.Value.Float64()

	if price <= 0 {
		// the upstream formula would divide by zero here; refuse instead
		return domain.RiskReading{}, errors.Wrapf(ErrUnavailable, "non-positive price %v from %s", price, quote.Source)
	}

	argYield, spreadBps := Spread(price, usYield)
	reading := domain.RiskReading{
		SpreadBps:      spreadBps,
		ApproxArgYield: argYield,
		USYield:        usYield,
		ArgPrice:       price,
		SourceUsed:     quote.Source,
		Level:          domain.LevelFor(spreadBps),
		ComputedAt:     time.Now(),
	}

	s.logger.Info("risk reading computed",
		zap.Float64("spread_bps", reading.SpreadBps),
		zap.Float64("arg_price", reading.ArgPrice),
		zap.Float64("us_yield", reading.USYield),
		zap.String("source", string(reading.SourceUsed)))
	return reading, nil
}

// Spread derives the approximate Argentine yield and the spread over the US
// yield, in basis points. The yield is a crude inverse-price proxy, not a
// YTM solve; the floor at zero applies to the derived yield, matching the
// published approximation exactly.
func Spread(price, usYield float64) (approxArgYield, spreadBps float64) {
	approxArgYield = (100.0 / price) * 10.0
	if approxArgYield < 0 {
		approxArgYield = 0
	}
	spreadBps = (approxArgYield - usYield) * 100.0
	return approxArgYield, spreadBps
}
