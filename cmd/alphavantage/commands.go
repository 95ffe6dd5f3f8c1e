package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"alphavantage/internal/alphavantage"
	"alphavantage/internal/config"
	"alphavantage/internal/format"
	"alphavantage/internal/payload"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "alphavantage",
		Short:         "Alpha Vantage CLI - access financial market data from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			a.rateLimitSet = flags.Changed("rate-limit")
			a.timeoutSet = flags.Changed("timeout")
			return a.setup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.apiKey, "api-key", "", "Alpha Vantage API key (can also set ALPHA_VANTAGE_API_KEY env var)")
	flags.StringVar(&a.configFile, "config-file", "", "path to configuration file (default config.toml)")
	flags.Float64Var(&a.rateLimit, "rate-limit", 12.0, "rate limit delay in seconds (default: 12s for free tier)")
	flags.Float64Var(&a.timeout, "timeout", 30.0, "request timeout in seconds")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(
		newGetQuoteCmd(a),
		newGetDailyCmd(a),
		newGetIntradayCmd(a),
		newGetWeeklyCmd(a),
		newGetMonthlyCmd(a),
		newGetOverviewCmd(a),
		newGetIndicatorsCmd(a),
		newGetForexCmd(a),
		newGetCryptoCmd(a),
		newListIndicatorsCmd(a),
		newSaveConfigCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// output holds the flags shared by every data command.
type output struct {
	format     string
	rawHeaders bool
}

func (o *output) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "output-format", "", "output format: json or csv (default from config)")
	cmd.Flags().BoolVar(&o.rawHeaders, "raw-headers", false, "keep the API's numbered column names in CSV output")
}

type fetchFunc func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error)

// dataRunE resolves the output mode, calls fetch, and prints the result.
// The mode is checked before any request is made.
func dataRunE(a *app, o *output, fetch func(args []string) fetchFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		name := o.format
		if name == "" {
			name = a.cfg.OutputFormat
		}
		mode, err := format.ParseMode(name)
		if err != nil {
			return err
		}

		client, err := a.apiClient()
		if err != nil {
			return err
		}
		data, err := fetch(args)(cmd.Context(), client)
		if err != nil {
			return err
		}
		return a.print(data, mode, o.rawHeaders)
	}
}

func (a *app) print(data *payload.Object, mode format.Mode, rawHeaders bool) error {
	out, err := format.Format(data, mode, format.WithCleanHeaders(!rawHeaders))
	if err != nil {
		return err
	}
	if out.Mode == format.DelimitedText {
		_, err := fmt.Fprint(a.stdout, out.Text)
		return err
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Payload)
}

func newGetQuoteCmd(a *app) *cobra.Command {
	var o output
	cmd := &cobra.Command{
		Use:   "get-quote SYMBOL",
		Short: "Get real-time stock quote",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				return c.Stocks.Quote(ctx, args[0])
			}
		}),
	}
	o.register(cmd)
	return cmd
}

func newGetDailyCmd(a *app) *cobra.Command {
	var (
		o          output
		adjusted   bool
		outputSize string
	)
	cmd := &cobra.Command{
		Use:   "get-daily SYMBOL",
		Short: "Get daily stock time series",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				return c.Stocks.Daily(ctx, args[0], alphavantage.DailyOptions{Adjusted: adjusted, OutputSize: outputSize})
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().BoolVar(&adjusted, "adjusted", false, "return split and dividend adjusted data (premium)")
	cmd.Flags().StringVar(&outputSize, "outputsize", alphavantage.OutputSizeCompact, "data size: compact (latest 100 points) or full")
	return cmd
}

func newGetIntradayCmd(a *app) *cobra.Command {
	var (
		o          output
		interval   string
		adjusted   bool
		outputSize string
	)
	cmd := &cobra.Command{
		Use:   "get-intraday SYMBOL",
		Short: "Get intraday stock time series",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				return c.Stocks.Intraday(ctx, args[0], alphavantage.IntradayOptions{
					Interval:   interval,
					Adjusted:   adjusted,
					OutputSize: outputSize,
				})
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().StringVar(&interval, "interval", alphavantage.Interval5Min, "time interval: 1min, 5min, 15min, 30min or 60min")
	cmd.Flags().BoolVar(&adjusted, "adjusted", true, "return split and dividend adjusted data")
	cmd.Flags().StringVar(&outputSize, "outputsize", alphavantage.OutputSizeCompact, "data size: compact or full")
	return cmd
}

func newGetWeeklyCmd(a *app) *cobra.Command {
	var (
		o        output
		adjusted bool
	)
	cmd := &cobra.Command{
		Use:   "get-weekly SYMBOL",
		Short: "Get weekly stock time series",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				return c.Stocks.Weekly(ctx, args[0], adjusted)
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().BoolVar(&adjusted, "adjusted", false, "return adjusted data")
	return cmd
}

func newGetMonthlyCmd(a *app) *cobra.Command {
	var (
		o        output
		adjusted bool
	)
	cmd := &cobra.Command{
		Use:   "get-monthly SYMBOL",
		Short: "Get monthly stock time series",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				return c.Stocks.Monthly(ctx, args[0], adjusted)
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().BoolVar(&adjusted, "adjusted", false, "return adjusted data")
	return cmd
}

func newGetOverviewCmd(a *app) *cobra.Command {
	var o output
	cmd := &cobra.Command{
		Use:   "get-overview SYMBOL",
		Short: "Get company overview and fundamental data",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				return c.Stocks.Overview(ctx, args[0])
			}
		}),
	}
	o.register(cmd)
	return cmd
}

func newGetIndicatorsCmd(a *app) *cobra.Command {
	var (
		o          output
		indicator  string
		interval   string
		timePeriod int
		seriesType string
	)
	cmd := &cobra.Command{
		Use:   "get-indicators SYMBOL",
		Short: "Get technical indicators",
		Args:  cobra.ExactArgs(1),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				symbol := args[0]
				avg := alphavantage.AverageParams{Interval: interval, TimePeriod: timePeriod, SeriesType: seriesType}
				switch name := strings.ToUpper(indicator); name {
				case "SMA":
					return c.Indicators.SMA(ctx, symbol, avg)
				case "EMA":
					return c.Indicators.EMA(ctx, symbol, avg)
				case "RSI":
					return c.Indicators.RSI(ctx, symbol, avg)
				case "MACD":
					return c.Indicators.MACD(ctx, symbol, alphavantage.MACDParams{Interval: interval, SeriesType: seriesType})
				case "BBANDS":
					return c.Indicators.BBANDS(ctx, symbol, alphavantage.BandsParams{AverageParams: avg})
				default:
					return c.Indicators.Indicator(ctx, name, symbol, interval, map[string]string{
						"time_period": strconv.Itoa(timePeriod),
						"series_type": seriesType,
					})
				}
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().StringVar(&indicator, "indicator", "", "technical indicator (e.g. SMA, EMA, RSI, MACD, BBANDS)")
	cmd.Flags().StringVar(&interval, "interval", alphavantage.IntervalDaily, "time interval")
	cmd.Flags().IntVar(&timePeriod, "time-period", 20, "time period for calculation")
	cmd.Flags().StringVar(&seriesType, "series-type", alphavantage.SeriesClose, "price series type: close, open, high or low")
	_ = cmd.MarkFlagRequired("indicator")
	return cmd
}

func newGetForexCmd(a *app) *cobra.Command {
	var (
		o     output
		daily bool
	)
	cmd := &cobra.Command{
		Use:   "get-forex FROM TO",
		Short: "Get forex exchange rates or time series data",
		Args:  cobra.ExactArgs(2),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				if daily {
					return c.Forex.Daily(ctx, args[0], args[1], "")
				}
				return c.Forex.ExchangeRate(ctx, args[0], args[1])
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().BoolVar(&daily, "daily", false, "get daily time series instead of exchange rate")
	return cmd
}

func newGetCryptoCmd(a *app) *cobra.Command {
	var (
		o     output
		daily bool
	)
	cmd := &cobra.Command{
		Use:   "get-crypto SYMBOL [MARKET]",
		Short: "Get cryptocurrency data",
		Args:  cobra.RangeArgs(1, 2),
		RunE: dataRunE(a, &o, func(args []string) fetchFunc {
			market := alphavantage.DefaultMarket
			if len(args) > 1 {
				market = args[1]
			}
			return func(ctx context.Context, c *alphavantage.Client) (*payload.Object, error) {
				if daily {
					return c.Crypto.Daily(ctx, args[0], market)
				}
				return c.Crypto.ExchangeRate(ctx, args[0], market)
			}
		}),
	}
	o.register(cmd)
	cmd.Flags().BoolVar(&daily, "daily", false, "get daily time series instead of exchange rate")
	return cmd
}

func newListIndicatorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-indicators",
		Short: "List available technical indicators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := alphavantage.List()
			fmt.Fprintln(a.stdout, "Available Technical Indicators:")
			fmt.Fprintln(a.stdout, strings.Repeat("=", 50))
			for _, name := range alphavantage.Names() {
				fmt.Fprintf(a.stdout, "%-12s - %s\n", name, list[name])
			}
			return nil
		},
	}
}

// newSaveConfigCmd writes the effective settings, after env and flag
// overrides, to a TOML file. An API key is written only when given with
// --api-key or already present in the config file.
func newSaveConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save-config [PATH]",
		Short: "Write the current settings to a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultFile
			}
			cfg := a.cfg
			if strings.TrimSpace(a.apiKey) != "" {
				cfg = cfg.WithAPIKey(a.apiKey)
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Configuration saved to %s\n", path)
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "Alpha Vantage CLI v%s\n", version)
			fmt.Fprintln(a.stdout, description)
		},
	}
}
