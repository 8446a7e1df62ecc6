package risk

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riesgopais/internal/domain"
	"riesgopais/internal/resolver"
	"riesgopais/internal/sources"
)

type stubResolver struct {
	quote domain.PriceQuote
	err   error
	calls int
}

func (r *stubResolver) Resolve(_ context.Context, _ string, _ domain.Preference) (domain.PriceQuote, error) {
	r.calls++
	return r.quote, r.err
}

type stubYield struct {
	value decimal.Decimal
	err   error
}

func (y *stubYield) FetchYield(_ context.Context) (domain.YieldQuote, error) {
	if y.err != nil {
		return domain.YieldQuote{}, y.err
	}
	return domain.NewYieldQuote(y.value), nil
}

type stubHistory struct {
	series map[string][]sources.ClosePoint
	errs   map[string]error
	calls  int
}

func (h *stubHistory) DailyCloses(_ context.Context, symbol, _ string) ([]sources.ClosePoint, error) {
	h.calls++
	if err, ok := h.errs[symbol]; ok {
		return nil, err
	}
	return h.series[symbol], nil
}

func TestSpread(t *testing.T) {
	argYield, spread := Spread(30.0, 4.0)
	assert.InDelta(t, 33.3333, argYield, 0.001)
	assert.InDelta(t, 2933.3333, spread, 0.001)

	// a very expensive bond can push the derived yield below the US one
	argYield, spread = Spread(500.0, 4.0)
	assert.InDelta(t, 2.0, argYield, 0.001)
	assert.InDelta(t, -200.0, spread, 0.001)
}

func TestCurrentReading(t *testing.T) {
	res := &stubResolver{
		quote: domain.NewPriceQuote(decimal.RequireFromString("34.20"), domain.SourceRava),
	}
	yield := &stubYield{value: decimal.RequireFromString("4.50")}

	svc := NewService(res, yield, &stubHistory{}, "AL30D.BA", domain.PreferenceAuto)

	reading, err := svc.CurrentReading(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRava, reading.SourceUsed)
	assert.Equal(t, 34.20, reading.ArgPrice)
	assert.Equal(t, 4.50, reading.USYield)
	assert.InDelta(t, 2473.98, reading.SpreadBps, 0.01)
	assert.Equal(t, domain.RiskMedium, reading.Level)
	assert.False(t, reading.ComputedAt.IsZero())
}

func TestCurrentReadingCached(t *testing.T) {
	res := &stubResolver{
		quote: domain.NewPriceQuote(decimal.RequireFromString("30"), domain.SourceAPI),
	}
	yield := &stubYield{value: decimal.RequireFromString("4.0")}

	svc := NewService(res, yield, &stubHistory{}, "AL30D.BA", domain.PreferenceAuto,
		WithLiveTTL(time.Minute))

	for i := 0; i < 3; i++ {
		_, err := svc.CurrentReading(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, res.calls)
}

func TestCurrentReadingNoPrice(t *testing.T) {
	res := &stubResolver{err: sources.ErrAbsent}
	yield := &stubYield{value: decimal.RequireFromString("4.0")}

	svc := NewService(res, yield, &stubHistory{}, "AL30D.BA", domain.PreferenceAuto)

	_, err := svc.CurrentReading(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrentReadingNoYield(t *testing.T) {
	res := &stubResolver{
		quote: domain.NewPriceQuote(decimal.RequireFromString("30"), domain.SourceAPI),
	}
	yield := &stubYield{err: sources.ErrAbsent}

	svc := NewService(res, yield, &stubHistory{}, "AL30D.BA", domain.PreferenceAuto)

	_, err := svc.CurrentReading(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

type fixedSource struct {
	src   domain.Source
	price string
}

func (s fixedSource) Source() domain.Source { return s.src }

func (s fixedSource) FetchPrice(_ context.Context, _ string) (domain.PriceQuote, error) {
	if s.price == "" {
		return domain.PriceQuote{}, sources.ErrAbsent
	}
	return domain.NewPriceQuote(decimal.RequireFromString(s.price), s.src), nil
}

// full path: API answers absent, the chain falls through to Rava, and the
// reading credits Rava with the exact approximation formula applied.
func TestReadingThroughFallbackChain(t *testing.T) {
	chain := []sources.PriceSource{
		fixedSource{src: domain.SourceAPI},
		fixedSource{src: domain.SourceRava, price: "34.20"},
		fixedSource{src: domain.SourceIOL, price: "99.99"},
	}
	res, err := resolver.New(nil, chain, nil, nil)
	require.NoError(t, err)

	yield := &stubYield{value: decimal.RequireFromString("4.50")}
	svc := NewService(res, yield, &stubHistory{}, "AL30D", domain.PreferenceAuto)

	reading, err := svc.CurrentReading(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRava, reading.SourceUsed)
	assert.Equal(t, 34.20, reading.ArgPrice)
	assert.InDelta(t, 29.24, reading.ApproxArgYield, 0.01)
	assert.InDelta(t, 2473.98, reading.SpreadBps, 0.01)
}

func TestCurrentReadingNonPositivePrice(t *testing.T) {
	res := &stubResolver{
		quote: domain.NewPriceQuote(decimal.Zero, domain.SourceManual),
	}
	yield := &stubYield{value: decimal.RequireFromString("4.0")}

	svc := NewService(res, yield, &stubHistory{}, "AL30D.BA", domain.PreferenceManual)

	_, err := svc.CurrentReading(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
