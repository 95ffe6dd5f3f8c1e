package alphavantage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"alphavantage/internal/errs"
	"alphavantage/internal/payload"
)

// Series types an indicator can be computed over.
const (
	SeriesClose = "close"
	SeriesOpen  = "open"
	SeriesHigh  = "high"
	SeriesLow   = "low"
)

var indicators = map[string]string{
	"SMA":          "Simple Moving Average",
	"EMA":          "Exponential Moving Average",
	"WMA":          "Weighted Moving Average",
	"DEMA":         "Double Exponential Moving Average",
	"TEMA":         "Triple Exponential Moving Average",
	"TRIMA":        "Triangular Moving Average",
	"KAMA":         "Kaufman Adaptive Moving Average",
	"MAMA":         "MESA Adaptive Moving Average",
	"VWAP":         "Volume Weighted Average Price",
	"T3":           "Triple Exponential Moving Average (T3)",
	"MACD":         "Moving Average Convergence/Divergence",
	"MACDEXT":      "MACD with controllable MA type",
	"STOCH":        "Stochastic",
	"STOCHF":       "Stochastic Fast",
	"RSI":          "Relative Strength Index",
	"STOCHRSI":     "Stochastic Relative Strength Index",
	"WILLR":        "Williams' %R",
	"ADX":          "Average Directional Movement Index",
	"ADXR":         "Average Directional Movement Index Rating",
	"APO":          "Absolute Price Oscillator",
	"PPO":          "Percentage Price Oscillator",
	"MOM":          "Momentum",
	"BOP":          "Balance Of Power",
	"CCI":          "Commodity Channel Index",
	"CMO":          "Chande Momentum Oscillator",
	"ROC":          "Rate of change",
	"ROCR":         "Rate of change ratio",
	"AROON":        "Aroon",
	"AROONOSC":     "Aroon Oscillator",
	"MFI":          "Money Flow Index",
	"TRIX":         "1-day Rate-Of-Change (ROC) of a Triple Smooth EMA",
	"ULTOSC":       "Ultimate Oscillator",
	"DX":           "Directional Movement Index",
	"MINUS_DI":     "Minus Directional Indicator",
	"PLUS_DI":      "Plus Directional Indicator",
	"MINUS_DM":     "Minus Directional Movement",
	"PLUS_DM":      "Plus Directional Movement",
	"BBANDS":       "Bollinger Bands",
	"MIDPOINT":     "MidPoint over period",
	"MIDPRICE":     "Midpoint Price over period",
	"SAR":          "Parabolic SAR",
	"TRANGE":       "True Range",
	"ATR":          "Average True Range",
	"NATR":         "Normalized Average True Range",
	"CHAIKIN":      "Chaikin A/D Line",
	"AD":           "Chaikin A/D Line",
	"ADOSC":        "Chaikin A/D Oscillator",
	"OBV":          "On Balance Volume",
	"HT_TRENDLINE": "Hilbert Transform - Instantaneous Trendline",
	"HT_SINE":      "Hilbert Transform - SineWave",
	"HT_TRENDMODE": "Hilbert Transform - Trend vs Cycle Mode",
	"HT_DCPERIOD":  "Hilbert Transform - Dominant Cycle Period",
	"HT_DCPHASE":   "Hilbert Transform - Dominant Cycle Phase",
	"HT_PHASOR":    "Hilbert Transform - Phasor Components",
}

// Indicators groups the technical indicator functions.
type Indicators struct {
	c *Client
}

// AverageParams configures the single-period indicators (SMA, EMA, RSI,
// BBANDS). Zero values take the per-indicator defaults.
type AverageParams struct {
	Interval   string
	TimePeriod int
	SeriesType string
}

// MACDParams configures MACD.
type MACDParams struct {
	Interval     string
	SeriesType   string
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// BandsParams configures BBANDS. Deviations of zero mean two; MAType zero
// is the simple moving average.
type BandsParams struct {
	AverageParams
	DevUp   int
	DevDown int
	MAType  int
}

// SMA returns the simple moving average of symbol.
func (in *Indicators) SMA(ctx context.Context, symbol string, p AverageParams) (*payload.Object, error) {
	return in.average(ctx, "SMA", symbol, p, 20)
}

// EMA returns the exponential moving average of symbol.
func (in *Indicators) EMA(ctx context.Context, symbol string, p AverageParams) (*payload.Object, error) {
	return in.average(ctx, "EMA", symbol, p, 20)
}

// RSI returns the relative strength index of symbol.
func (in *Indicators) RSI(ctx context.Context, symbol string, p AverageParams) (*payload.Object, error) {
	return in.average(ctx, "RSI", symbol, p, 14)
}

// MACD returns the moving average convergence/divergence of symbol.
func (in *Indicators) MACD(ctx context.Context, symbol string, p MACDParams) (*payload.Object, error) {
	q, err := indicatorQuery("MACD", symbol, p.Interval)
	if err != nil {
		return nil, err
	}
	q = q.With("series_type", orDefault(p.SeriesType, SeriesClose)).
		With("fastperiod", positiveOr(p.FastPeriod, 12)).
		With("slowperiod", positiveOr(p.SlowPeriod, 26)).
		With("signalperiod", positiveOr(p.SignalPeriod, 9))
	return in.fetch(ctx, q)
}

// BBANDS returns the Bollinger bands of symbol.
func (in *Indicators) BBANDS(ctx context.Context, symbol string, p BandsParams) (*payload.Object, error) {
	q, err := indicatorQuery("BBANDS", symbol, p.Interval)
	if err != nil {
		return nil, err
	}
	q = q.With("time_period", positiveOr(p.TimePeriod, 20)).
		With("series_type", orDefault(p.SeriesType, SeriesClose)).
		With("nbdevup", positiveOr(p.DevUp, 2)).
		With("nbdevdn", positiveOr(p.DevDown, 2)).
		With("matype", strconv.Itoa(p.MAType))
	return in.fetch(ctx, q)
}

// Indicator calls any listed indicator by name. extra holds the
// indicator-specific parameters and is added in key order; it cannot
// change the function.
func (in *Indicators) Indicator(ctx context.Context, name, symbol, interval string, extra map[string]string) (*payload.Object, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if _, ok := indicators[name]; !ok {
		return nil, errs.API("unknown indicator %q, available indicators: %s", name, strings.Join(Names(), ", "))
	}
	q, err := indicatorQuery(name, symbol, interval)
	if err != nil {
		return nil, err
	}
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		if key == "function" {
			continue
		}
		q = q.With(key, extra[key])
	}
	return in.fetch(ctx, q)
}

// List returns the supported indicators and their descriptions. The map is
// a copy.
func List() map[string]string {
	return maps.Clone(indicators)
}

// Names returns the supported indicator names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(indicators))
}

func (in *Indicators) average(ctx context.Context, name, symbol string, p AverageParams, period int) (*payload.Object, error) {
	q, err := indicatorQuery(name, symbol, p.Interval)
	if err != nil {
		return nil, err
	}
	q = q.With("time_period", positiveOr(p.TimePeriod, period)).
		With("series_type", orDefault(p.SeriesType, SeriesClose))
	return in.fetch(ctx, q)
}

func (in *Indicators) fetch(ctx context.Context, q Query) (*payload.Object, error) {
	return in.c.fetch(ctx, q, "technical analysis",
		fmt.Sprintf("Technical Analysis: %s", q.Function()), "Technical Analysis")
}

func indicatorQuery(name, symbol, interval string) (Query, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return Query{}, err
	}
	interval = orDefault(interval, IntervalDaily)
	if err := ValidateInterval(interval); err != nil {
		return Query{}, err
	}
	return NewQuery(name).With("symbol", symbol).With("interval", interval), nil
}

func positiveOr(v, def int) string {
	if v <= 0 {
		v = def
	}
	return strconv.Itoa(v)
}
