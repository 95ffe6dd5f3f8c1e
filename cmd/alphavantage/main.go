// Command alphavantage fetches market data from the Alpha Vantage API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"alphavantage/internal/alphavantage"
	"alphavantage/internal/config"
	"alphavantage/internal/errs"
	"alphavantage/internal/logging"
)

const (
	version     = "1.0.0"
	description = "Go package and CLI for Alpha Vantage financial market data API"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return errs.ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if hint := errs.Hint(err); hint != "" {
		fmt.Fprintf(stderr, "\n%s\n", hint)
	}
	code := errs.ExitCode(err)
	if code == errs.ExitUsage {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
	}
	return code
}

// app holds what the subcommands share: global flags, the loaded config,
// and the lazily built client.
type app struct {
	stdout io.Writer
	stderr io.Writer

	apiKey     string
	configFile string
	rateLimit  float64
	timeout    float64
	verbose    bool

	rateLimitSet bool
	timeoutSet   bool

	cfg    config.Config
	logger *zap.Logger
	client *alphavantage.Client
}

// setup loads .env, the config file, and the logger. It runs before every
// subcommand.
func (a *app) setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.rateLimitSet {
		cfg.RateLimitDelay = a.rateLimit
	}
	if a.timeoutSet {
		cfg.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.New(level, a.stderr)
	return nil
}

// apiClient builds the client on first use, so commands that never call
// the API work without a key.
func (a *app) apiClient() (*alphavantage.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := alphavantage.NewClient(config.ResolveAPIKey(a.apiKey, a.cfg),
		alphavantage.WithBaseURL(a.cfg.BaseURL),
		alphavantage.WithRateLimitDelay(a.cfg.RateLimitDelayDuration()),
		alphavantage.WithTimeout(a.cfg.TimeoutDuration()),
		alphavantage.WithRequestsPerMinute(a.cfg.RequestsPerMinute),
		alphavantage.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}
