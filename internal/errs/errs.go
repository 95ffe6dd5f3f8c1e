// Package errs defines the closed set of failures surfaced by the client.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind sentinels. Every *Error unwraps to exactly one of these, so callers
// can classify with errors.Is.
var (
	ErrCredential    = errors.New("credential failure")
	ErrThrottle      = errors.New("throttle failure")
	ErrInvalidSymbol = errors.New("invalid symbol failure")
	ErrNetwork       = errors.New("network failure")
	ErrAPI           = errors.New("api failure")
	ErrFormat        = errors.New("format failure")
)

// Error is a classified failure.
type Error struct {
	// Kind is one of the sentinels above.
	Kind error
	// Message is the human readable description.
	Message string
	// StatusCode is the HTTP status, when the failure came from one.
	StatusCode int
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Credential(format string, args ...any) *Error {
	return newError(ErrCredential, format, args...)
}

func Throttle(format string, args ...any) *Error {
	return newError(ErrThrottle, format, args...)
}

func InvalidSymbol(format string, args ...any) *Error {
	return newError(ErrInvalidSymbol, format, args...)
}

func Network(format string, args ...any) *Error {
	return newError(ErrNetwork, format, args...)
}

func API(format string, args ...any) *Error {
	return newError(ErrAPI, format, args...)
}

func Format(format string, args ...any) *Error {
	return newError(ErrFormat, format, args...)
}

// Wrap attaches cause to a new failure of the given kind.
func Wrap(kind error, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// WithStatus records the HTTP status that produced e.
func (e *Error) WithStatus(code int) *Error {
	e.StatusCode = code
	return e
}

// Exit statuses used by the command line tool.
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitCredential    = 2
	ExitThrottle      = 3
	ExitInvalidSymbol = 4
	ExitNetwork       = 5
	ExitAPI           = 6
	ExitFormat        = 7
)

// ExitCode maps err to a process exit status. Unclassified errors are
// treated as usage errors.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrCredential):
		return ExitCredential
	case errors.Is(err, ErrThrottle):
		return ExitThrottle
	case errors.Is(err, ErrInvalidSymbol):
		return ExitInvalidSymbol
	case errors.Is(err, ErrNetwork):
		return ExitNetwork
	case errors.Is(err, ErrAPI):
		return ExitAPI
	case errors.Is(err, ErrFormat):
		return ExitFormat
	default:
		return ExitUsage
	}
}

const apiKeyURL = "https://www.alphavantage.co/support/#api-key"

// Hint returns follow-up guidance for err, or "" when there is none.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCredential):
		return "To get an API key, visit: " + apiKeyURL
	case errors.Is(err, ErrThrottle):
		return "Consider upgrading to a premium plan for higher rate limits."
	case errors.Is(err, ErrInvalidSymbol):
		return "Please check that the symbol is correct and supported."
	}
	if strings.Contains(strings.ToLower(err.Error()), "premium") {
		return "This endpoint requires a premium Alpha Vantage subscription."
	}
	return ""
}
