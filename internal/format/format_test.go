package format

import (
	"encoding/json"
	"errors"
	"testing"

	"alphavantage/internal/errs"
	"alphavantage/internal/payload"
)

func mustDecode(t *testing.T, doc string) *payload.Object {
	t.Helper()
	obj, err := payload.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode %s: %v", doc, err)
	}
	return obj
}

func csvText(t *testing.T, p any, opts ...Option) string {
	t.Helper()
	out, err := Format(p, DelimitedText, opts...)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out.Mode != DelimitedText {
		t.Fatalf("mode = %v", out.Mode)
	}
	return out.Text
}

func TestIsTimeSeries(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want bool
	}{
		{"daily bars", `{"2023-01-01": {"1. open": "150.00"}}`, true},
		{"intraday stamp", `{"2023-01-01 16:00:00": {"1. open": "1"}}`, true},
		{"slash date", `{"01/02/23": {"v": "1"}}`, true},
		{"eight chars", `{"20230101": {"v": "1"}}`, true},
		{"short key", `{"abc": {"v": "1"}}`, false},
		{"empty object", `{}`, true},
		{"single scalar", `{"2023-01-01": "150.00"}`, false},
		{"mixed values", `{"2023-01-01": {"v": "1"}, "2023-01-02": "2"}`, false},
		{"array value", `{"2023-01-01": ["1"]}`, false},
	}
	for _, c := range cases {
		if got := IsTimeSeries(mustDecode(t, c.doc)); got != c.want {
			t.Fatalf("%s: IsTimeSeries = %v, want %v", c.name, got, c.want)
		}
	}
	if IsTimeSeries(nil) {
		t.Fatalf("nil object must not be a time series")
	}
}

func TestIsFlat(t *testing.T) {
	cases := []struct {
		doc  string
		want bool
	}{
		{`{"01. symbol": "AAPL", "05. price": "150.00"}`, true},
		{`{}`, true},
		{`{"a": 1, "b": [1, 2], "c": null}`, true},
		{`{"a": 1, "b": {"c": 2}}`, false},
	}
	for _, c := range cases {
		if got := IsFlat(mustDecode(t, c.doc)); got != c.want {
			t.Fatalf("%s: IsFlat = %v, want %v", c.doc, got, c.want)
		}
	}
}

func TestClassify(t *testing.T) {
	if got := Classify(mustDecode(t, `{}`)); got != TimeSeries {
		t.Fatalf("empty: %v", got)
	}
	if got := Classify(mustDecode(t, `{"a": "1"}`)); got != Flat {
		t.Fatalf("flat: %v", got)
	}
	if got := Classify(mustDecode(t, `{"Meta Data": {"a": "1"}, "n": 1}`)); got != Mixed {
		t.Fatalf("mixed: %v", got)
	}
}

func TestFormat_TimeSeries(t *testing.T) {
	p := mustDecode(t, `{"2023-01-01": {"1. open": "150.00", "4. close": "155.00"}}`)

	got := csvText(t, p)
	want := "date,1. open,4. close\n2023-01-01,150.00,155.00\n"
	if got != want {
		t.Fatalf("raw headers:\n got %q\nwant %q", got, want)
	}

	got = csvText(t, p, WithCleanHeaders(true))
	want = "date,open,close\n2023-01-01,150.00,155.00\n"
	if got != want {
		t.Fatalf("clean headers:\n got %q\nwant %q", got, want)
	}
}

func TestFormat_TimeSeriesSortsDescendingByString(t *testing.T) {
	p := mustDecode(t, `{
		"2024-1-10": {"v": "b"},
		"2023-12-31": {"v": "c"},
		"2024-1-9": {"v": "a"}
	}`)
	// "2024-1-9" > "2024-1-10" as strings even though it is earlier.
	want := "date,v\n2024-1-9,a\n2024-1-10,b\n2023-12-31,c\n"
	if got := csvText(t, p); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormat_TimeSeriesColumnUnion(t *testing.T) {
	p := mustDecode(t, `{
		"2024-01-02": {"1. open": "1", "5. volume": "100"},
		"2024-01-03": {"1. open": "2", "7. dividend amount": "0.50"}
	}`)
	want := "date,open,volume,dividend_amount\n" +
		"2024-01-03,2,,0.50\n" +
		"2024-01-02,1,100,\n"
	if got := csvText(t, p, WithCleanHeaders(true)); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormat_Flat(t *testing.T) {
	p := mustDecode(t, `{"01. symbol": "AAPL", "05. price": "150.00"}`)
	want := "01. symbol,05. price\nAAPL,150.00\n"
	if got := csvText(t, p); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	want = "symbol,price\nAAPL,150.00\n"
	if got := csvText(t, p, WithCleanHeaders(true)); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormat_FlatScalarsAndQuoting(t *testing.T) {
	p := mustDecode(t, `{"name": "Acme, Inc.", "n": 1.50, "ok": true, "none": null, "note": "two\nlines"}`)
	want := "name,n,ok,none,note\n\"Acme, Inc.\",1.50,true,,\"two\nlines\"\n"
	if got := csvText(t, p); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormat_QuotesOnlyDelimitersAndLineBreaks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "leading space", doc: `{"a": " 150.00"}`, want: "a\n 150.00\n"},
		{name: "backslash dot", doc: `{"a": "\\."}`, want: "a\n\\.\n"},
		{name: "leading tab", doc: `{"a": "\tx"}`, want: "a\n\tx\n"},
		{name: "embedded quote", doc: `{"a": "say \"hi\""}`, want: "a\n\"say \"\"hi\"\"\"\n"},
		{name: "carriage return", doc: `{"a": "x\ry"}`, want: "a\n\"x\ry\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csvText(t, mustDecode(t, tt.doc)); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_MixedWritesNestedJSON(t *testing.T) {
	p := mustDecode(t, `{"Meta Data": {"1. Information": "x"}, "count": 3}`)
	want := "Meta Data,count\n\"{\"\"1. Information\"\":\"\"x\"\"}\",3\n"
	if got := csvText(t, p); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormat_EmptyPayload(t *testing.T) {
	// An empty object classifies as a time series with no rows, leaving
	// only the date header.
	if got := csvText(t, payload.NewObject()); got != "date\n" {
		t.Fatalf("got %q", got)
	}
	if got := csvText(t, nil); got != "" {
		t.Fatalf("nil payload: got %q", got)
	}
}

func TestFormat_StructuredIsIdentity(t *testing.T) {
	payloads := []any{
		mustDecode(t, `{"2023-01-01": {"1. open": "150.00"}}`),
		mustDecode(t, `{}`),
		[]any{"x"},
		nil,
	}
	for _, p := range payloads {
		out, err := Format(p, Structured)
		if err != nil {
			t.Fatalf("structured: %v", err)
		}
		if obj, ok := p.(*payload.Object); ok {
			if out.Payload.(*payload.Object) != obj {
				t.Fatalf("structured output must be the same object")
			}
			continue
		}
		a, _ := json.Marshal(p)
		b, _ := json.Marshal(out.Payload)
		if string(a) != string(b) {
			t.Fatalf("structured changed payload: %s vs %s", a, b)
		}
	}
}

func TestFormat_UnsupportedMode(t *testing.T) {
	if _, err := ParseMode("xml"); !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("ParseMode(xml) = %v, want format failure", err)
	}
	if _, err := Format(payload.NewObject(), Mode(42)); !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("Format(Mode(42)) = %v, want format failure", err)
	}
	for in, want := range map[string]Mode{"json": Structured, "CSV": DelimitedText, " Json ": Structured} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
}

func TestFormat_UnsupportedPayloadType(t *testing.T) {
	out, err := Format([]any{"x"}, DelimitedText)
	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("want format failure, got %v", err)
	}
	if out.Text != "" {
		t.Fatalf("no partial output expected, got %q", out.Text)
	}
}

func TestCleanColumnName(t *testing.T) {
	cases := map[string]string{
		"1. open":             "open",
		"5. adjusted close":   "adjusted_close",
		"01. symbol":          "symbol",
		"10. change percent":  "change_percent",
		"1.open":              "open",
		"Symbol":              "symbol",
		"date":                "date",
		"Last  Refreshed Now": "last_refreshed_now",
	}
	for in, want := range cases {
		if got := CleanColumnName(in); got != want {
			t.Fatalf("CleanColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}
