// Package sources contains one adapter per upstream price provider. Every
// adapter swallows its own transport and parse faults into ErrAbsent so a
// single misbehaving provider can never take down the fallback chain.
package sources

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"riesgopais/internal/domain"
)

// ErrAbsent signals that an adapter found no usable value. Expected and
// non-fatal; it is what drives the resolver to the next provider.
var ErrAbsent = errors.New("no usable value from source")

// PriceSource fetches a single bond price from one provider.
type PriceSource interface {
	Source() domain.Source
	FetchPrice(ctx context.Context, symbol string) (domain.PriceQuote, error)
}

// YieldSource fetches the reference US Treasury yield. A single provider
// serves it, so no fallback chain is involved.
type YieldSource interface {
	FetchYield(ctx context.Context) (domain.YieldQuote, error)
}

// NormalizeSymbol uppercases a ticker and strips any exchange suffix
// ("al30d.ba" -> "AL30D").
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.Index(s, "."); i > 0 {
		s = s[:i]
	}
	return s
}

// absentf wraps ErrAbsent with provider context, optionally chaining the
// underlying cause for the logs.
func absentf(cause error, format string, args ...interface{}) error {
	msg := errors.Errorf(format, args...).Error()
	if cause != nil {
		return errors.Wrapf(ErrAbsent, "%s: %v", msg, cause)
	}
	return errors.Wrap(ErrAbsent, msg)
}
