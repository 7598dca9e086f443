// Package dateutils holds the date parsing and formatting rules shared by the
// ledger decoder, the providers and the fetch-window computation.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts understood when reading dates.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutRFC3339  = time.RFC3339
	DateLayoutUS       = "01/02/2006"
	DateLayoutUSShort  = "1/2/2006"
	DateLayoutUSYY     = "1/2/06"
	DateLayoutEuropean = "02.01.2006"
)

// CommonFormats is tried in order by ParseDate. US layouts come before the
// European one because the ledgers this tool reads come from US banks.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutRFC3339,
	DateLayoutUS,
	DateLayoutUSShort,
	DateLayoutUSYY,
	DateLayoutEuropean,
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate parses dateStr with the first matching layout of CommonFormats and
// returns the date truncated to midnight UTC together with the layout used.
func ParseDate(dateStr string) (time.Time, string, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse date: empty value")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return TruncateDay(t), layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims the value and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats date as YYYY-MM-DD. The zero time formats as "".
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// TruncateDay drops the clock part of t, keeping its calendar day in UTC.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after date.
func NextDay(date time.Time) time.Time {
	return TruncateDay(date).AddDate(0, 0, 1)
}

// CompareDates compares the calendar days of date1 and date2 and returns -1,
// 0 or 1.
func CompareDates(date1, date2 time.Time) int {
	d1, d2 := TruncateDay(date1), TruncateDay(date2)
	switch {
	case d1.Before(d2):
		return -1
	case d1.After(d2):
		return 1
	default:
		return 0
	}
}
