package alphavantage

import (
	"context"
	"fmt"

	"alphavantage/internal/payload"
)

// DefaultMarket is the quote currency used when none is given.
const DefaultMarket = "USD"

// Crypto groups the digital currency functions.
type Crypto struct {
	c *Client
}

// ExchangeRate returns the realtime rate between two currencies.
func (cr *Crypto) ExchangeRate(ctx context.Context, from, to string) (*payload.Object, error) {
	return exchangeRate(ctx, cr.c, from, to)
}

// Intraday returns intraday bars for symbol quoted in market.
func (cr *Crypto) Intraday(ctx context.Context, symbol, market, interval, outputSize string) (*payload.Object, error) {
	interval = orDefault(interval, Interval5Min)
	if err := validateIntradayInterval(interval); err != nil {
		return nil, err
	}
	size := orDefault(outputSize, OutputSizeCompact)
	if err := validateOutputSize(size); err != nil {
		return nil, err
	}
	q, err := marketQuery("CRYPTO_INTRADAY", symbol, market)
	if err != nil {
		return nil, err
	}
	q = q.With("interval", interval).With("outputsize", size)
	return cr.c.fetch(ctx, q, "crypto time series",
		fmt.Sprintf("Time Series Crypto (%s)", interval), "Time Series (Crypto)", "Time Series Crypto")
}

// Daily returns daily bars for symbol quoted in market.
func (cr *Crypto) Daily(ctx context.Context, symbol, market string) (*payload.Object, error) {
	return cr.digital(ctx, "DIGITAL_CURRENCY_DAILY", "Daily", symbol, market)
}

// Weekly returns weekly bars for symbol quoted in market.
func (cr *Crypto) Weekly(ctx context.Context, symbol, market string) (*payload.Object, error) {
	return cr.digital(ctx, "DIGITAL_CURRENCY_WEEKLY", "Weekly", symbol, market)
}

// Monthly returns monthly bars for symbol quoted in market.
func (cr *Crypto) Monthly(ctx context.Context, symbol, market string) (*payload.Object, error) {
	return cr.digital(ctx, "DIGITAL_CURRENCY_MONTHLY", "Monthly", symbol, market)
}

func (cr *Crypto) digital(ctx context.Context, function, period, symbol, market string) (*payload.Object, error) {
	q, err := marketQuery(function, symbol, market)
	if err != nil {
		return nil, err
	}
	return cr.c.fetch(ctx, q, "crypto time series", fmt.Sprintf("Time Series (Digital Currency %s)", period))
}

func marketQuery(function, symbol, market string) (Query, error) {
	symbol, err := NormalizeCurrency(symbol)
	if err != nil {
		return Query{}, err
	}
	market, err = NormalizeCurrency(orDefault(market, DefaultMarket))
	if err != nil {
		return Query{}, err
	}
	return NewQuery(function).With("symbol", symbol).With("market", market), nil
}
