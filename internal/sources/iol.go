package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/httpx"
)

// DefaultIOLBaseURLs are the candidate hosts for InvertirOnline quote pages.
// The provider has moved between them before, so the adapter walks the list.
var DefaultIOLBaseURLs = []string{
	"https://iol.invertironline.com",
	"https://www.invertironline.com",
}

// IOLSource scrapes the InvertirOnline quote page for a ticker. Prices there
// use the Argentine "1.234,56" convention.
type IOLSource struct {
	client   *httpx.Client
	baseURLs []string
	logger   *zap.Logger
}

func NewIOLSource(client *httpx.Client, baseURLs []string, logger *zap.Logger) *IOLSource {
	if len(baseURLs) == 0 {
		baseURLs = DefaultIOLBaseURLs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IOLSource{client: client, baseURLs: baseURLs, logger: logger}
}

func (s *IOLSource) Source() domain.Source { return domain.SourceIOL }

func (s *IOLSource) FetchPrice(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	sym := NormalizeSymbol(symbol)

	var lastErr error
	for _, base := range s.baseURLs {
		url := fmt.Sprintf("%s/titulo/cotizacion/BCBA/%s", base, sym)
		quote, err := s.fetchFrom(ctx, url, sym)
		if err == nil {
			return quote, nil
		}
		lastErr = err
		s.logger.Debug("iol candidate failed", zap.String("url", url), zap.Error(err))
	}

	if lastErr != nil {
		return domain.PriceQuote{}, lastErr
	}
	return domain.PriceQuote{}, absentf(nil, "iol has no candidate urls")
}

func (s *IOLSource) fetchFrom(ctx context.Context, url, sym string) (domain.PriceQuote, error) {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "iol request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, absentf(nil, "iol returned status %d for %s", resp.StatusCode, sym)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "iol body read failed")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "iol page not parseable")
	}

	// the quote page tags the last traded price with a data-field attribute
	if raw := doc.Find(`[data-field="UltimoPrecio"]`).First().Text(); raw != "" {
		if price, ok := extractFirstPrice(raw); ok {
			return domain.NewPriceQuote(price, domain.SourceIOL), nil
		}
	}

	// older layout: a table row keyed by the ticker
	var found domain.PriceQuote
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		if NormalizeSymbol(cells.First().Text()) != sym {
			return true
		}
		if price, ok := extractFirstPrice(cells.Eq(1).Text()); ok {
			found = domain.NewPriceQuote(price, domain.SourceIOL)
			return false
		}
		return true
	})
	if found.Source == domain.SourceIOL {
		return found, nil
	}

	return domain.PriceQuote{}, absentf(nil, "iol page had no recognizable price for %s", sym)
}
