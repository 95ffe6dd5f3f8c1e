package alphavantage

import (
	"slices"
	"strings"

	"alphavantage/internal/errs"
)

// Intervals accepted by the API.
const (
	Interval1Min    = "1min"
	Interval5Min    = "5min"
	Interval15Min   = "15min"
	Interval30Min   = "30min"
	Interval60Min   = "60min"
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

// Output sizes accepted by the time series functions.
const (
	OutputSizeCompact = "compact"
	OutputSizeFull    = "full"
)

const maxSymbolLength = 10

var (
	intradayIntervals = []string{Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval60Min}
	allIntervals      = append(slices.Clone(intradayIntervals), IntervalDaily, IntervalWeekly, IntervalMonthly)
)

// NormalizeSymbol upper-cases symbol and checks that it looks like a
// ticker: letters, digits, dots and dashes, at most ten characters.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", errs.InvalidSymbol("symbol is required")
	}
	if len(s) > maxSymbolLength {
		return "", errs.InvalidSymbol("invalid symbol %q: longer than %d characters", symbol, maxSymbolLength)
	}
	for _, r := range s {
		if !isTickerRune(r) {
			return "", errs.InvalidSymbol("invalid symbol %q: unexpected character %q", symbol, r)
		}
	}
	return s, nil
}

func isTickerRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-'
}

// NormalizeCurrency upper-cases a currency code and checks its length.
// Physical currencies have three letters; digital ones may be shorter or
// longer.
func NormalizeCurrency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) < 2 || len(c) > 5 {
		return "", errs.InvalidSymbol("invalid currency code %q", code)
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", errs.InvalidSymbol("invalid currency code %q", code)
		}
	}
	return c, nil
}

// ValidateInterval reports whether interval is one the API understands.
func ValidateInterval(interval string) error {
	if !slices.Contains(allIntervals, interval) {
		return errs.InvalidSymbol("invalid interval %q, expected one of %s", interval, strings.Join(allIntervals, ", "))
	}
	return nil
}

func validateIntradayInterval(interval string) error {
	if !slices.Contains(intradayIntervals, interval) {
		return errs.InvalidSymbol("invalid intraday interval %q, expected one of %s", interval, strings.Join(intradayIntervals, ", "))
	}
	return nil
}

func validateOutputSize(size string) error {
	if size != OutputSizeCompact && size != OutputSizeFull {
		return errs.InvalidSymbol("invalid output size %q, expected %s or %s", size, OutputSizeCompact, OutputSizeFull)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
