// Package format turns response payloads into the output the caller asked
// for: the payload itself, or CSV text.
package format

import (
	"strings"

	"alphavantage/internal/errs"
)

// Mode selects the output representation.
type Mode int

const (
	// Structured returns the payload untouched.
	Structured Mode = iota
	// DelimitedText renders the payload as CSV.
	DelimitedText
)

func (m Mode) String() string {
	switch m {
	case Structured:
		return "json"
	case DelimitedText:
		return "csv"
	default:
		return "unknown"
	}
}

// ParseMode accepts "json" and "csv", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return Structured, nil
	case "csv":
		return DelimitedText, nil
	default:
		return 0, errs.Format("unsupported output format: %s", s)
	}
}

// Output is the result of Format. Exactly one of Payload or Text is
// meaningful, depending on Mode.
type Output struct {
	Mode    Mode
	Payload any
	Text    string
}

type options struct {
	cleanHeaders bool
}

// Option adjusts how CSV is produced.
type Option func(*options)

// WithCleanHeaders normalizes API labels such as "1. open" to "open".
func WithCleanHeaders(on bool) Option {
	return func(o *options) { o.cleanHeaders = on }
}

// Format renders p in the requested mode. Structured output is the
// identity; no copy is made.
func Format(p any, mode Mode, opts ...Option) (Output, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch mode {
	case Structured:
		return Output{Mode: Structured, Payload: p}, nil
	case DelimitedText:
		text, err := toCSV(p, o)
		if err != nil {
			return Output{}, err
		}
		return Output{Mode: DelimitedText, Text: text}, nil
	default:
		return Output{}, errs.Format("unsupported output format: %s", mode)
	}
}
