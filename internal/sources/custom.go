package sources

import (
	"context"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/httpx"
)

// ManualSource returns a fixed user-supplied price, bypassing all fetching.
type ManualSource struct {
	value decimal.Decimal
}

func NewManualSource(value decimal.Decimal) *ManualSource {
	return &ManualSource{value: value}
}

func (s *ManualSource) Source() domain.Source { return domain.SourceManual }

func (s *ManualSource) FetchPrice(_ context.Context, _ string) (domain.PriceQuote, error) {
	if !s.value.IsPositive() {
		return domain.PriceQuote{}, absentf(nil, "manual price is not positive")
	}
	return domain.NewPriceQuote(s.value, domain.SourceManual), nil
}

// CustomURLSource pulls an arbitrary user-supplied page through the generic
// price extraction heuristic. Any plausible price-shaped number in the page
// can win; that precision/recall tradeoff is accepted for a source the user
// pointed at explicitly.
type CustomURLSource struct {
	client *httpx.Client
	url    string
	logger *zap.Logger
}

func NewCustomURLSource(client *httpx.Client, url string, logger *zap.Logger) *CustomURLSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomURLSource{client: client, url: url, logger: logger}
}

func (s *CustomURLSource) Source() domain.Source { return domain.SourceCustom }

func (s *CustomURLSource) FetchPrice(ctx context.Context, _ string) (domain.PriceQuote, error) {
	if s.url == "" {
		return domain.PriceQuote{}, absentf(nil, "no custom url configured")
	}

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "custom url request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, absentf(nil, "custom url returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "custom url body read failed")
	}

	price, ok := extractFirstPrice(string(body))
	if !ok {
		return domain.PriceQuote{}, absentf(nil, "custom url page had no recognizable price")
	}

	s.logger.Debug("custom url price extracted",
		zap.String("url", s.url), zap.String("price", price.String()))
	return domain.NewPriceQuote(price, domain.SourceCustom), nil
}
