// Package numparse normalizes locale-formatted numeric strings scraped from
// upstream provider pages. Argentine pages write prices as "1.234,56" while
// API payloads use plain "1234.56"; both must land on the same value.
package numparse

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseError reports text that could not be interpreted as a number.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("numparse: %q is not a number", e.Raw)
}

// currencyMarkers are stripped before numeric interpretation. Order matters:
// longer markers first so "US$" does not leave a dangling "US".
var currencyMarkers = []string{"US$", "u$s", "u$S", "USD", "ARS", "$", "%"}

// Parse converts a locale-formatted numeric string into a decimal value.
//
// Separator detection: when both '.' and ',' appear, the rightmost one is
// the decimal separator and the other is grouping. A lone comma is a decimal
// comma ("34,55"); a lone dot is a decimal dot ("34.55"). Pure and
// deterministic: same input, same result.
func Parse(raw string) (decimal.Decimal, error) {
	s := clean(raw)
	if s == "" || !strings.ContainsAny(s, "0123456789") {
		return decimal.Decimal{}, &ParseError{Raw: raw}
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// "1.234,56": dots group, comma is decimal
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// "1,234.56": commas group, dot is decimal
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			// "1,234,567": grouping only
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		// "1.234.567": grouping only
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Raw: raw}
	}
	return d, nil
}

// ParseFloat is Parse with a float64 result, for callers feeding the risk
// formula directly.
func ParseFloat(raw string) (float64, error) {
	d, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

func clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}
