// Package resolver walks the configured provider ordering and returns the
// first usable price together with its provenance.
package resolver

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/sources"
)

// ErrNoSource signals that every adapter in the chain came back empty.
var ErrNoSource = errors.New("all sources exhausted")

// Resolver holds one adapter per fetchable source plus the bypass adapters.
type Resolver struct {
	chain  map[domain.Source]sources.PriceSource
	manual sources.PriceSource
	custom sources.PriceSource
	logger *zap.Logger
}

// New builds a resolver and validates at startup that the ordering table is
// total and that every ordered source has a registered adapter.
func New(logger *zap.Logger, chain []sources.PriceSource, manual, custom sources.PriceSource) (*Resolver, error) {
	if err := domain.ValidateOrderings(); err != nil {
		return nil, errors.Wrap(err, "source ordering table is invalid")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bySource := make(map[domain.Source]sources.PriceSource, len(chain))
	for _, adapter := range chain {
		bySource[adapter.Source()] = adapter
	}
	for _, order := range domain.Orderings {
		for _, src := range order {
			if _, ok := bySource[src]; !ok {
				return nil, errors.Errorf("no adapter registered for source %q", src)
			}
		}
	}

	return &Resolver{chain: bySource, manual: manual, custom: custom, logger: logger}, nil
}

// Resolve tries adapters strictly in the preference's order and returns the
// first non-absent price. Providers are never raced in parallel: sequential
// short-circuiting keeps upstream load low and provenance unambiguous.
// Manual and custom preferences bypass the chain entirely.
func (r *Resolver) Resolve(ctx context.Context, symbol string, pref domain.Preference) (domain.PriceQuote, error) {
	if pref.Bypass() {
		return r.resolveBypass(ctx, symbol, pref)
	}

	order, ok := domain.Orderings[pref]
	if !ok {
		return noneQuote(), errors.Errorf("unknown source preference %q", pref)
	}

	for _, src := range order {
		adapter := r.chain[src]
		quote, err := adapter.FetchPrice(ctx, symbol)
		if err == nil {
			r.logger.Info("price resolved",
				zap.String("symbol", symbol),
				zap.String("source", string(src)))
			return quote, nil
		}

		// timeouts and transport faults degrade exactly like an absent
		// value: on to the next provider
		r.logger.Warn("source returned no price",
			zap.String("symbol", symbol),
			zap.String("source", string(src)),
			zap.Error(err))
	}

	return noneQuote(), errors.Wrapf(ErrNoSource, "symbol %s", symbol)
}

func (r *Resolver) resolveBypass(ctx context.Context, symbol string, pref domain.Preference) (domain.PriceQuote, error) {
	adapter := r.manual
	if pref == domain.PreferenceCustom {
		adapter = r.custom
	}
	if adapter == nil {
		return noneQuote(), errors.Errorf("preference %q selected but not configured", pref)
	}

	quote, err := adapter.FetchPrice(ctx, symbol)
	if err != nil {
		r.logger.Warn("bypass source returned no price",
			zap.String("preference", string(pref)), zap.Error(err))
		return noneQuote(), errors.Wrapf(ErrNoSource, "preference %s", pref)
	}
	return quote, nil
}

func noneQuote() domain.PriceQuote {
	return domain.PriceQuote{Source: domain.SourceNone}
}
