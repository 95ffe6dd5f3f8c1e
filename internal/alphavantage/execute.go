package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"alphavantage/internal/errs"
	"alphavantage/internal/payload"
)

// Keys the API uses to report problems inside an HTTP 200 body.
const (
	keyErrorMessage = "Error Message"
	keyInformation  = "Information"
	keyNote         = "Note"
)

// Execute sends q to the API and returns the decoded response body. It
// waits for the throttle first, attaches the API key to a private copy of
// the parameters, and bounds the request by timeout (the client default
// when timeout is not positive). Every failure is an *errs.Error whose kind
// can be tested with errors.Is.
func (c *Client) Execute(ctx context.Context, q Query, timeout time.Duration) (*payload.Object, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	log := c.logger.With(zap.String("function", q.Function()))

	if err := c.quota.Wait(ctx); err != nil {
		return nil, c.failed(log, errs.Wrap(errs.ErrNetwork, err, "waiting for request quota"))
	}
	// Last gate before dispatch, so the recorded time is the send time.
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, c.failed(log, errs.Wrap(errs.ErrNetwork, err, "waiting for rate limit"))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), http.NoBody)
	if err != nil {
		return nil, c.failed(log, errs.Wrap(errs.ErrNetwork, err, "creating request"))
	}
	params := c.baseURL.Query()
	for key, values := range q.Values() {
		params[key] = values
	}
	params.Set(apiKeyParam, c.apiKey)
	req.URL.RawQuery = params.Encode()
	req.Header = c.header.Clone()

	log.Debug("dispatching request", zap.Stringer("query", q), zap.Duration("timeout", timeout))
	started := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.failed(log, transportFailure(err))
	}
	defer res.Body.Close()

	if err := statusFailure(res.StatusCode); err != nil {
		return nil, c.failed(log, err)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.failed(log, transportFailure(err))
	}

	raw, err := payload.Decode(body)
	if err != nil {
		return nil, c.failed(log, errs.Wrap(errs.ErrAPI, err, "invalid JSON response"))
	}
	if err := classify(raw); err != nil {
		return nil, c.failed(log, err)
	}

	log.Debug("request completed",
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(started)))
	return raw, nil
}

func (c *Client) failed(log *zap.Logger, err *errs.Error) error {
	log.Warn("request failed", zap.Error(err))
	return err
}

// transportFailure classifies an error from the HTTP client. The request
// URL carries the API key, so a *url.Error is reduced to its cause.
func transportFailure(err error) *errs.Error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &nerr) && nerr.Timeout():
		return errs.Wrap(errs.ErrNetwork, err, "request timed out")
	case errors.Is(err, context.Canceled):
		return errs.Wrap(errs.ErrNetwork, err, "request canceled")
	default:
		return errs.Wrap(errs.ErrNetwork, err, "connection error")
	}
}

func statusFailure(code int) *errs.Error {
	switch {
	case code == http.StatusUnauthorized:
		return errs.Credential("invalid API key").WithStatus(code)
	case code == http.StatusTooManyRequests:
		return errs.Throttle("rate limit exceeded").WithStatus(code)
	case code < 200 || code > 299:
		return errs.Network("HTTP error %d: %s", code, http.StatusText(code)).WithStatus(code)
	}
	return nil
}

// classify turns the notices the API embeds in successful responses into
// errors. A body carrying any of the notice keys is never a success.
func classify(raw *payload.Object) *errs.Error {
	if msg, ok := notice(raw, keyErrorMessage); ok {
		if strings.Contains(msg, "Invalid API call") {
			return errs.InvalidSymbol("invalid symbol or API call: %s", msg)
		}
		return errs.API("API error: %s", msg)
	}

	if msg, ok := notice(raw, keyInformation); ok {
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "api key"), strings.Contains(lower, "apikey"):
			return errs.Credential("API key issue: %s", msg)
		case strings.Contains(lower, "premium"), strings.Contains(lower, "subscription"):
			return errs.API("premium feature required: %s", msg)
		default:
			return errs.API("API information: %s", msg)
		}
	}

	if msg, ok := notice(raw, keyNote); ok {
		lower := strings.ToLower(msg)
		// "frequen" covers both "too frequent" and "call frequency".
		if strings.Contains(lower, "rate limit") || strings.Contains(lower, "frequen") {
			return errs.Throttle("API rate limit exceeded: %s", msg)
		}
		return errs.API("API note: %s", msg)
	}
	return nil
}

func notice(raw *payload.Object, key string) (string, bool) {
	v, ok := raw.Get(key)
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", true
	}
	return string(b), true
}
