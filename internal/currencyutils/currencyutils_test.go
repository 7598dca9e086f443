package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  string
		hasError  bool
	}{
		{"Empty string", "", "0", false},
		{"Blank", "   ", "0", false},
		{"Simple decimal", "123.45", "123.45", false},
		{"Negative decimal", "-123.45", "-123.45", false},
		{"Explicit plus", "+7", "7", false},
		{"Integer", "100", "100", false},
		{"With thousand separator", "1,234.56", "1234.56", false},
		{"With dollar sign", "$1,234.50", "1234.5", false},
		{"Negative dollars", "-$12.00", "-12", false},
		{"With currency code", "USD 99.99", "99.99", false},
		{"Accounting negative", "(15.00)", "-15", false},
		{"Accounting negative with symbol", "($1,015.25)", "-1015.25", false},
		{"With spaces", "  123.45  ", "123.45", false},
		{"Malformed decimal", "123.45.67", "", true},
		{"Non-numeric", "abc", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			expected := decimal.RequireFromString(tc.expected)
			assert.True(t, expected.Equal(result), "Expected %s but got %s", expected, result)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   decimal.Decimal
		expected string
	}{
		{decimal.RequireFromString("4.5"), "4.50"},
		{decimal.RequireFromString("-2500"), "-2500.00"},
		{decimal.RequireFromString("1234.567"), "1234.57"},
		{decimal.Zero, "0.00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, FormatAmount(tc.amount))
	}
}
