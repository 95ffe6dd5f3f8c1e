package alphavantage

import (
	"context"
	"strings"

	"alphavantage/internal/errs"
	"alphavantage/internal/payload"
)

// locate finds the part of a response an endpoint is interested in. Each
// pattern is tried in turn, first as an exact key and then as a substring
// of the keys in document order. The first hit wins.
func locate(raw *payload.Object, patterns ...string) (any, bool) {
	for _, pattern := range patterns {
		if v, ok := raw.Get(pattern); ok {
			return v, true
		}
		var found any
		var ok bool
		raw.Range(func(key string, v any) bool {
			if strings.Contains(key, pattern) {
				found, ok = v, true
				return false
			}
			return true
		})
		if ok {
			return found, true
		}
	}
	return nil, false
}

// fetch executes q and extracts the object stored under one of patterns.
// what names the data in the error returned when nothing matches.
func (c *Client) fetch(ctx context.Context, q Query, what string, patterns ...string) (*payload.Object, error) {
	raw, err := c.Execute(ctx, q, 0)
	if err != nil {
		return nil, err
	}
	v, ok := locate(raw, patterns...)
	if !ok {
		return nil, errs.API("no %s data found in response", what)
	}
	obj, ok := v.(*payload.Object)
	if !ok {
		return nil, errs.API("unexpected %s data of type %T in response", what, v)
	}
	return obj, nil
}
