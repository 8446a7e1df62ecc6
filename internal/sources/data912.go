package sources

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/httpx"
)

// DefaultBondsURL lists live prices for every USD-denominated Argentine
// sovereign bond in one JSON payload.
const DefaultBondsURL = "https://data912.com/live/arg_bonds"

// APISource reads the structured bonds endpoint. It is the cheapest and
// most stable provider, so the default chain tries it first.
type APISource struct {
	client *httpx.Client
	url    string
	logger *zap.Logger
}

// NewAPISource creates the adapter. An empty url selects DefaultBondsURL.
func NewAPISource(client *httpx.Client, url string, logger *zap.Logger) *APISource {
	if url == "" {
		url = DefaultBondsURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APISource{client: client, url: url, logger: logger}
}

func (s *APISource) Source() domain.Source { return domain.SourceAPI }

type bondItem struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"c"`
}

// FetchPrice looks the normalized symbol up in the endpoint's bond list.
func (s *APISource) FetchPrice(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	sym := NormalizeSymbol(symbol)

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "api request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, absentf(nil, "api returned status %d", resp.StatusCode)
	}

	var items []bondItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return domain.PriceQuote{}, absentf(err, "api returned malformed payload")
	}

	for _, item := range items {
		if NormalizeSymbol(item.Symbol) != sym {
			continue
		}
		if item.Close <= 0 {
			return domain.PriceQuote{}, absentf(nil, "api price for %s is not positive", sym)
		}
		s.logger.Debug("api price found", zap.String("symbol", sym), zap.Float64("price", item.Close))
		return domain.NewPriceQuote(decimal.NewFromFloat(item.Close), domain.SourceAPI), nil
	}

	return domain.PriceQuote{}, absentf(nil, "symbol %s not listed by api", sym)
}
