package alphavantage

import (
	"context"
	"fmt"

	"alphavantage/internal/payload"
)

// Forex groups the foreign exchange functions.
type Forex struct {
	c *Client
}

// ExchangeRate returns the realtime rate between two currencies.
func (f *Forex) ExchangeRate(ctx context.Context, from, to string) (*payload.Object, error) {
	return exchangeRate(ctx, f.c, from, to)
}

// Intraday returns intraday bars for the pair. Empty interval and size
// take the defaults (5min, compact).
func (f *Forex) Intraday(ctx context.Context, from, to, interval, outputSize string) (*payload.Object, error) {
	interval = orDefault(interval, Interval5Min)
	if err := validateIntradayInterval(interval); err != nil {
		return nil, err
	}
	size := orDefault(outputSize, OutputSizeCompact)
	if err := validateOutputSize(size); err != nil {
		return nil, err
	}
	q, err := pairQuery("FX_INTRADAY", from, to)
	if err != nil {
		return nil, err
	}
	q = q.With("interval", interval).With("outputsize", size)
	return f.c.fetch(ctx, q, "forex time series", fmt.Sprintf("Time Series FX (%s)", interval), "Time Series FX")
}

// Daily returns daily bars for the pair.
func (f *Forex) Daily(ctx context.Context, from, to, outputSize string) (*payload.Object, error) {
	size := orDefault(outputSize, OutputSizeCompact)
	if err := validateOutputSize(size); err != nil {
		return nil, err
	}
	q, err := pairQuery("FX_DAILY", from, to)
	if err != nil {
		return nil, err
	}
	q = q.With("outputsize", size)
	return f.c.fetch(ctx, q, "forex time series", "Time Series FX (Daily)", "Time Series FX")
}

// Weekly returns weekly bars for the pair.
func (f *Forex) Weekly(ctx context.Context, from, to string) (*payload.Object, error) {
	q, err := pairQuery("FX_WEEKLY", from, to)
	if err != nil {
		return nil, err
	}
	return f.c.fetch(ctx, q, "forex time series", "Time Series FX (Weekly)", "Time Series FX")
}

// Monthly returns monthly bars for the pair.
func (f *Forex) Monthly(ctx context.Context, from, to string) (*payload.Object, error) {
	q, err := pairQuery("FX_MONTHLY", from, to)
	if err != nil {
		return nil, err
	}
	return f.c.fetch(ctx, q, "forex time series", "Time Series FX (Monthly)", "Time Series FX")
}

func pairQuery(function, from, to string) (Query, error) {
	from, err := NormalizeCurrency(from)
	if err != nil {
		return Query{}, err
	}
	to, err = NormalizeCurrency(to)
	if err != nil {
		return Query{}, err
	}
	return NewQuery(function).With("from_symbol", from).With("to_symbol", to), nil
}

// exchangeRate serves both physical and digital currencies; the API uses
// one function for either.
func exchangeRate(ctx context.Context, c *Client, from, to string) (*payload.Object, error) {
	from, err := NormalizeCurrency(from)
	if err != nil {
		return nil, err
	}
	to, err = NormalizeCurrency(to)
	if err != nil {
		return nil, err
	}
	q := NewQuery("CURRENCY_EXCHANGE_RATE").
		With("from_currency", from).
		With("to_currency", to)
	return c.fetch(ctx, q, "exchange rate", "Realtime Currency Exchange Rate")
}
