package alphavantage

import (
	"net/url"
	"strings"
)

type param struct {
	key   string
	value string
}

// Query is an ordered set of request parameters. It never carries the API
// key; the client adds that on a private copy at dispatch time. Query values
// are immutable: With returns a new Query and leaves the receiver alone.
type Query struct {
	params []param
}

// NewQuery starts a query for the given API function.
func NewQuery(function string) Query {
	return Query{params: []param{{key: "function", value: function}}}
}

// With returns a copy of q with key set to value. Setting an existing key
// replaces its value in place. The apikey parameter is ignored.
func (q Query) With(key, value string) Query {
	if strings.EqualFold(key, apiKeyParam) {
		return q
	}
	out := Query{params: make([]param, 0, len(q.params)+1)}
	replaced := false
	for _, p := range q.params {
		if p.key == key {
			p.value = value
			replaced = true
		}
		out.params = append(out.params, p)
	}
	if !replaced {
		out.params = append(out.params, param{key: key, value: value})
	}
	return out
}

// Function returns the API function the query calls.
func (q Query) Function() string {
	v, _ := q.Get("function")
	return v
}

// Get returns the value of key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q.params {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Len returns the number of parameters.
func (q Query) Len() int { return len(q.params) }

// Values returns the parameters as a fresh url.Values.
func (q Query) Values() url.Values {
	v := make(url.Values, len(q.params))
	for _, p := range q.params {
		v.Set(p.key, p.value)
	}
	return v
}

// String renders the parameters in insertion order for logs.
func (q Query) String() string {
	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
