package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindsAreDistinguishable(t *testing.T) {
	cases := []struct {
		err  error
		kind error
		code int
	}{
		{Credential("missing key"), ErrCredential, ExitCredential},
		{Throttle("slow down"), ErrThrottle, ExitThrottle},
		{InvalidSymbol("bad symbol"), ErrInvalidSymbol, ExitInvalidSymbol},
		{Network("timeout"), ErrNetwork, ExitNetwork},
		{API("unexpected"), ErrAPI, ExitAPI},
		{Format("bad mode"), ErrFormat, ExitFormat},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.kind) {
			t.Fatalf("%v: expected kind %v", c.err, c.kind)
		}
		if got := ExitCode(c.err); got != c.code {
			t.Fatalf("%v: exit code %d, want %d", c.err, got, c.code)
		}
		// wrapped once more by a caller
		wrapped := fmt.Errorf("get quote: %w", c.err)
		if got := ExitCode(wrapped); got != c.code {
			t.Fatalf("wrapped %v: exit code %d, want %d", c.err, got, c.code)
		}
	}
	if ExitCode(nil) != ExitOK {
		t.Fatalf("nil error should map to ExitOK")
	}
	if ExitCode(errors.New("plain")) != ExitUsage {
		t.Fatalf("unclassified error should map to ExitUsage")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrAPI, cause, "invalid JSON response")
	if !errors.Is(err, ErrAPI) || !errors.Is(err, cause) {
		t.Fatalf("expected both kind and cause in chain: %v", err)
	}
	if err.Error() != "invalid JSON response: unexpected end of JSON input" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWithStatus(t *testing.T) {
	err := Network("HTTP error %d", 503).WithStatus(503)
	if err.StatusCode != 503 {
		t.Fatalf("status not recorded: %+v", err)
	}
	var target *Error
	if !errors.As(fmt.Errorf("ctx: %w", err), &target) || target.StatusCode != 503 {
		t.Fatalf("errors.As lost status")
	}
}

func TestHint(t *testing.T) {
	if h := Hint(Credential("no key")); !strings.Contains(h, apiKeyURL) {
		t.Fatalf("credential hint should point at %s, got %q", apiKeyURL, h)
	}
	if h := Hint(API("premium feature required: x")); h == "" {
		t.Fatalf("expected premium hint")
	}
	if h := Hint(API("something else")); h != "" {
		t.Fatalf("expected no hint, got %q", h)
	}
	if Hint(nil) != "" {
		t.Fatalf("nil should have no hint")
	}
}
