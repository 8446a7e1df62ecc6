package numparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "argentine thousands and decimal comma",
			raw:      "1.234,56",
			expected: "1234.56",
		},
		{
			name:     "plain decimal",
			raw:      "34.55",
			expected: "34.55",
		},
		{
			name:     "us thousands and decimal dot",
			raw:      "1,234.56",
			expected: "1234.56",
		},
		{
			name:     "lone decimal comma",
			raw:      "34,55",
			expected: "34.55",
		},
		{
			name:     "dot grouping without decimals",
			raw:      "1.234.567",
			expected: "1234567",
		},
		{
			name:     "comma grouping without decimals",
			raw:      "1,234,567",
			expected: "1234567",
		},
		{
			name:     "leading currency symbol",
			raw:      "$ 34,20",
			expected: "34.2",
		},
		{
			name:     "argentine usd marker",
			raw:      "u$s 1.234,56",
			expected: "1234.56",
		},
		{
			name:     "surrounding whitespace",
			raw:      "  30.0  ",
			expected: "30",
		},
		{
			name:     "percent suffix",
			raw:      "4,50%",
			expected: "4.5",
		},
		{
			name:     "non-breaking space",
			raw:      "US$ 1.100,25",
			expected: "1100.25",
		},
		{
			name:     "integer",
			raw:      "30",
			expected: "30",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "N/A", "-", "precio", "$", "..", "12.3x"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			require.Error(t, err)

			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first, err := Parse("1.234,56")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Parse("1.234,56")
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestParseFloat(t *testing.T) {
	got, err := ParseFloat("1.234,56")
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, got, 1e-9)
}
