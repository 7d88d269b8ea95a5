// Package period implements the canonical billing period key used to attach
// payments to a month: "year/month" with no leading zero on the month
// ("1402/7", never "1402/07"). Every component that compares periods compares
// these strings byte for byte, so this is the only form that may be stored.
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedKey is returned by Parse for keys that do not follow the
// canonical form. A payment carrying such a key cannot be attributed to any
// period: it is excluded from period-filtered views but still counted in
// unfiltered totals.
var ErrMalformedKey = errors.New("malformed period key")

// Key returns the canonical key for a billing month.
func Key(year, month int) string {
	return fmt.Sprintf("%d/%d", year, month)
}

// Parse recovers (year, month) from a canonical key. The key is split on the
// first "/"; both parts must be plain positive integers and the month must be
// in 1..12.
func Parse(key string) (year, month int, err error) {
	yearPart, monthPart, ok := strings.Cut(key, "/")
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", key, ErrMalformedKey)
	}
	year, err = parsePositive(yearPart)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("%q: %w", key, ErrMalformedKey)
	}
	month, err = parsePositive(monthPart)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%q: %w", key, ErrMalformedKey)
	}
	return year, month, nil
}

// Canonicalize parses key and re-encodes it in the canonical spelling.
// Parse tolerates a zero-padded month ("1402/07") so legacy data stays
// readable, but only the canonical form may be stored: the salary uniqueness
// index and every period-filtered view compare raw strings.
func Canonicalize(key string) (string, error) {
	year, month, err := Parse(key)
	if err != nil {
		return "", err
	}
	return Key(year, month), nil
}

// YearPrefix returns the "year/" prefix shared by all keys of a year.
func YearPrefix(year int) string {
	return strconv.Itoa(year) + "/"
}

// MonthRange returns the half-open UTC date range [first of month, first of
// next month) for date-column queries. Month 12 rolls over into January of
// the following year.
func MonthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearRange returns the half-open UTC date range [Jan 1, Jan 1 of next year).
func YearRange(year int) (start, end time.Time) {
	start = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func parsePositive(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, errors.New("not a positive integer")
	}
	return strconv.Atoi(s)
}
