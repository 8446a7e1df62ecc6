package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"riesgopais/internal/domain"
	"riesgopais/internal/httpx"
)

const (
	// DefaultYahooBaseURL is the chart API this client reads.
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

	// treasurySymbol is the CBOE 10-year Treasury note yield index. Its
	// close already is a percentage, so no conversion is needed.
	treasurySymbol = "%5ETNX"

	defaultYahooRateLimit = 5
)

// YahooClient reads daily closes from the Yahoo Finance chart API. Requests
// are rate limited because the endpoint throttles aggressive clients.
type YahooClient struct {
	baseURL string
	client  *httpx.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// YahooOption configures the client.
type YahooOption func(*YahooClient)

// WithYahooBaseURL points the client at a different chart endpoint.
func WithYahooBaseURL(baseURL string) YahooOption {
	return func(c *YahooClient) { c.baseURL = baseURL }
}

// WithYahooRateLimit overrides the requests-per-second budget.
func WithYahooRateLimit(rps int) YahooOption {
	return func(c *YahooClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), rps) }
}

// WithYahooLogger attaches a logger.
func WithYahooLogger(logger *zap.Logger) YahooOption {
	return func(c *YahooClient) { c.logger = logger }
}

// NewYahooClient creates a chart API client on top of the shared HTTP client.
func NewYahooClient(client *httpx.Client, opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		baseURL: DefaultYahooBaseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(defaultYahooRateLimit), defaultYahooRateLimit),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClosePoint is one daily close in a chart series.
type ClosePoint struct {
	Date  time.Time
	Close float64
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// DailyCloses fetches the close series for a symbol over a range such as
// "5d" or "5y". Null closes (non-trading days) are skipped.
func (c *YahooClient) DailyCloses(ctx context.Context, symbol, rng string) ([]ClosePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?range=%s&interval=1d", c.baseURL, symbol, rng)
	resp, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart api returned status %d for %s", resp.StatusCode, symbol)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("chart api payload for %s: %w", symbol, err)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart api returned no series for %s", symbol)
	}

	result := payload.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	points := make([]ClosePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, ClosePoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *closes[i],
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("chart api series for %s is empty", symbol)
	}

	c.logger.Debug("chart series fetched", zap.String("symbol", symbol), zap.Int("points", len(points)))
	return points, nil
}

// LastClose returns the most recent close over the past week.
func (c *YahooClient) LastClose(ctx context.Context, symbol string) (float64, error) {
	points, err := c.DailyCloses(ctx, symbol, "5d")
	if err != nil {
		return 0, err
	}
	return points[len(points)-1].Close, nil
}

// TreasuryYieldSource serves the US 10Y yield off the chart client.
type TreasuryYieldSource struct {
	yahoo *YahooClient
}

func NewTreasuryYieldSource(yahoo *YahooClient) *TreasuryYieldSource {
	return &TreasuryYieldSource{yahoo: yahoo}
}

func (s *TreasuryYieldSource) FetchYield(ctx context.Context) (domain.YieldQuote, error) {
	last, err := s.yahoo.LastClose(ctx, treasurySymbol)
	if err != nil {
		return domain.YieldQuote{}, absentf(err, "treasury yield fetch failed")
	}
	if last <= 0 {
		return domain.YieldQuote{}, absentf(nil, "treasury yield is not positive")
	}
	return domain.NewYieldQuote(decimal.NewFromFloat(last)), nil
}

// TreasurySymbol exposes the fixed reference instrument for history pulls.
func TreasurySymbol() string { return treasurySymbol }
