// Package currencyutils parses and formats the dollar amounts stored in the
// ledger.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var noise = regexp.MustCompile(`[$\s]|USD`)

// ParseAmount parses a ledger amount such as "12.34", "-$1,234.50" or the
// accounting form "(15.00)". An empty value is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and thousands separators so that
// decimal.NewFromString can read the result.
func StandardizeAmount(amountStr string) string {
	s := noise.ReplaceAllString(amountStr, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	return s
}

// FormatAmount renders amount with exactly two decimals and no separators,
// the form written to the ledger and used to compare amounts.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
