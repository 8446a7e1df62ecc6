package sources

import (
	"regexp"

	"github.com/shopspring/decimal"

	"riesgopais/internal/numparse"
)

// priceShaped matches numbers as they appear on provider pages: grouped
// Argentine style ("1.234,56"), grouped US style ("1,234.56") or plain
// decimals. Grouped alternatives come first so they are not split apart.
var priceShaped = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+(?:,\d+)?|\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+[.,]\d+|\d+`)

// extractFirstPrice returns the first positive price-shaped number in the
// text. This heuristic is shared by the scrape fallbacks and the custom-URL
// adapter; it trades precision for recall and can latch onto any plausible
// number in the page, which is accepted behavior for user-supplied pages.
func extractFirstPrice(text string) (decimal.Decimal, bool) {
	for _, match := range priceShaped.FindAllString(text, 20) {
		d, err := numparse.Parse(match)
		if err != nil {
			continue
		}
		if d.IsPositive() {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

// extractPriceAfter finds the first price-shaped number following a label
// (case-insensitive) such as "último" or "UltimoPrecio".
func extractPriceAfter(text, label string) (decimal.Decimal, bool) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(label) + `[^0-9]{0,40}(` + priceShaped.String() + `)`)
	if err != nil {
		return decimal.Decimal{}, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, false
	}
	d, err := numparse.Parse(m[1])
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}
