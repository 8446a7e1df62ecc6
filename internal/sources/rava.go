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
	"riesgopais/internal/numparse"
)

// DefaultRavaBaseURL is the Rava Bursátil site root.
const DefaultRavaBaseURL = "https://www.rava.com"

// maxScrapeBody caps how much of a provider page is read.
const maxScrapeBody = 2 << 20

// RavaSource scrapes a bond's profile page on Rava Bursátil. The page embeds
// the quote as JSON in a component attribute; when that moves, a labeled
// last-price lookup over the visible text is tried before giving up.
type RavaSource struct {
	client  *httpx.Client
	baseURL string
	logger  *zap.Logger
}

func NewRavaSource(client *httpx.Client, baseURL string, logger *zap.Logger) *RavaSource {
	if baseURL == "" {
		baseURL = DefaultRavaBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RavaSource{client: client, baseURL: baseURL, logger: logger}
}

func (s *RavaSource) Source() domain.Source { return domain.SourceRava }

func (s *RavaSource) FetchPrice(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	sym := NormalizeSymbol(symbol)
	url := fmt.Sprintf("%s/perfil/%s", s.baseURL, sym)

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "rava request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, absentf(nil, "rava returned status %d for %s", resp.StatusCode, sym)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "rava body read failed")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return domain.PriceQuote{}, absentf(err, "rava page not parseable")
	}

	// the profile page ships the quote as JSON inside a component attribute;
	// look for its "ultimo" field in the raw markup first
	if price, ok := extractPriceAfter(string(body), `"ultimo":`); ok {
		s.logger.Debug("rava price from embedded quote",
			zap.String("symbol", sym), zap.String("price", price.String()))
		return domain.NewPriceQuote(price, domain.SourceRava), nil
	}

	// page layout changed: fall back to the labeled value in visible text
	text := doc.Text()
	for _, label := range []string{"último operado", "ultimo operado", "último", "ultimo"} {
		if price, ok := extractPriceAfter(text, label); ok {
			s.logger.Debug("rava price from page text",
				zap.String("symbol", sym), zap.String("price", price.String()))
			return domain.NewPriceQuote(price, domain.SourceRava), nil
		}
	}

	return domain.PriceQuote{}, absentf(&numparse.ParseError{Raw: sym}, "rava page had no recognizable price")
}
