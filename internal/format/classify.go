package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"alphavantage/internal/payload"
)

// Shape is the table layout a payload maps to.
type Shape int

const (
	// Mixed is any object that is neither a time series nor flat.
	Mixed Shape = iota
	// TimeSeries maps timestamp-like keys to records.
	TimeSeries
	// Flat holds only scalar (or array) values.
	Flat
)

func (s Shape) String() string {
	switch s {
	case TimeSeries:
		return "time-series"
	case Flat:
		return "flat"
	default:
		return "mixed"
	}
}

// Classify returns the shape of o. The time series test wins over the flat
// test, so an empty object is a time series.
func Classify(o *payload.Object) Shape {
	switch {
	case IsTimeSeries(o):
		return TimeSeries
	case IsFlat(o):
		return Flat
	default:
		return Mixed
	}
}

// IsTimeSeries reports whether o maps timestamp-like keys to records.
// Every value must be an object and every key must contain '-', '/' or ':'
// or be at least 8 characters long.
//
// An empty object qualifies since no entry fails the test. A nil object is
// not an object at all and does not.
func IsTimeSeries(o *payload.Object) bool {
	if o == nil {
		return false
	}
	ok := true
	o.Range(func(key string, v any) bool {
		if _, isObj := v.(*payload.Object); !isObj || !looksLikeTimestamp(key) {
			ok = false
		}
		return ok
	})
	return ok
}

func looksLikeTimestamp(key string) bool {
	return strings.ContainsAny(key, "-/:") || utf8.RuneCountInString(key) >= 8
}

// IsFlat reports whether no value of o is itself an object.
func IsFlat(o *payload.Object) bool {
	if o == nil {
		return false
	}
	flat := true
	o.Range(func(_ string, v any) bool {
		if _, isObj := v.(*payload.Object); isObj {
			flat = false
		}
		return flat
	})
	return flat
}

var (
	ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CleanColumnName turns an API label like "1. open" or "5. adjusted close"
// into "open" or "adjusted_close".
func CleanColumnName(name string) string {
	name = ordinalPrefix.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, "_")
	return strings.ToLower(name)
}
