package alphavantage

import (
	"context"
	"fmt"

	"alphavantage/internal/errs"
	"alphavantage/internal/payload"
)

// Stocks groups the equity functions.
type Stocks struct {
	c *Client
}

// IntradayOptions tunes Stocks.Intraday. Empty fields take the API
// defaults (5min, compact).
type IntradayOptions struct {
	Interval   string
	Adjusted   bool
	OutputSize string
}

// DailyOptions tunes Stocks.Daily.
type DailyOptions struct {
	Adjusted   bool
	OutputSize string
}

// Quote returns the latest price and volume for symbol.
func (s *Stocks) Quote(ctx context.Context, symbol string) (*payload.Object, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	q := NewQuery("GLOBAL_QUOTE").With("symbol", symbol)
	return s.c.fetch(ctx, q, "quote", "Global Quote")
}

// Intraday returns intraday bars for symbol.
func (s *Stocks) Intraday(ctx context.Context, symbol string, opts IntradayOptions) (*payload.Object, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	interval := orDefault(opts.Interval, Interval5Min)
	if err := validateIntradayInterval(interval); err != nil {
		return nil, err
	}
	size := orDefault(opts.OutputSize, OutputSizeCompact)
	if err := validateOutputSize(size); err != nil {
		return nil, err
	}

	q := NewQuery("TIME_SERIES_INTRADAY").
		With("symbol", symbol).
		With("interval", interval).
		With("adjusted", fmt.Sprint(opts.Adjusted)).
		With("outputsize", size)
	return s.c.fetch(ctx, q, "time series", fmt.Sprintf("Time Series (%s)", interval), "Time Series")
}

// Daily returns daily bars for symbol. The adjusted series is a premium
// function.
func (s *Stocks) Daily(ctx context.Context, symbol string, opts DailyOptions) (*payload.Object, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	size := orDefault(opts.OutputSize, OutputSizeCompact)
	if err := validateOutputSize(size); err != nil {
		return nil, err
	}

	function := "TIME_SERIES_DAILY"
	if opts.Adjusted {
		function = "TIME_SERIES_DAILY_ADJUSTED"
	}
	q := NewQuery(function).With("symbol", symbol).With("outputsize", size)
	return s.c.fetch(ctx, q, "time series", "Time Series (Daily)", "Time Series")
}

// Weekly returns weekly bars for symbol.
func (s *Stocks) Weekly(ctx context.Context, symbol string, adjusted bool) (*payload.Object, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if adjusted {
		q := NewQuery("TIME_SERIES_WEEKLY_ADJUSTED").With("symbol", symbol)
		return s.c.fetch(ctx, q, "time series", "Weekly Adjusted Time Series", "Time Series")
	}
	q := NewQuery("TIME_SERIES_WEEKLY").With("symbol", symbol)
	return s.c.fetch(ctx, q, "time series", "Weekly Time Series", "Time Series")
}

// Monthly returns monthly bars for symbol.
func (s *Stocks) Monthly(ctx context.Context, symbol string, adjusted bool) (*payload.Object, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if adjusted {
		q := NewQuery("TIME_SERIES_MONTHLY_ADJUSTED").With("symbol", symbol)
		return s.c.fetch(ctx, q, "time series", "Monthly Adjusted Time Series", "Time Series")
	}
	q := NewQuery("TIME_SERIES_MONTHLY").With("symbol", symbol)
	return s.c.fetch(ctx, q, "time series", "Monthly Time Series", "Time Series")
}

// Overview returns the company profile for symbol. The whole response is
// the profile; an empty body means the symbol is unknown.
func (s *Stocks) Overview(ctx context.Context, symbol string) (*payload.Object, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	raw, err := s.c.Execute(ctx, NewQuery("OVERVIEW").With("symbol", symbol), 0)
	if err != nil {
		return nil, err
	}
	if !raw.Has("Symbol") {
		return nil, errs.API("no overview data found in response")
	}
	return raw, nil
}
