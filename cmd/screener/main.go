package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"screener/internal/config"
	"screener/internal/logging"
	"screener/internal/metrics"
	"screener/internal/provider"
	"screener/internal/scanner"
)

var (
	cfgFile  string
	logLevel string
	verbose  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "screener",
		Short: "Technical-analysis stock screener",
		Long: `Screener scores US stocks on daily candles with five indicators
(SMA trend, RSI, MACD, Stochastic, QQE) and ranks them by a weighted profile.

Examples:
  screener scan --symbols AAPL,MSFT,NVDA --profile Aggressive
  screener scan --watchlist watchlist.json --max 10 --format json
  screener inspect TSLA --threshold 4
  screener watch --watchlist watchlist.json --interval 15m
  screener serve --port 8080 --watch`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show detailed output")

	rootCmd.AddCommand(
		newScanCmd(),
		newInspectCmd(),
		newProfilesCmd(),
		newServeCmd(),
		newWatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components shared by subcommands
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	provider provider.Provider
	scanner  *scanner.Scanner
	closers  []func() error
}

// loadConfig reads and validates the config with CLI overrides applied
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires config, logging, metrics, providers and the scanner
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(reg)

	a := &app{cfg: cfg, log: log, registry: reg, metrics: rec}

	providers := createProviders(cfg)
	if len(providers) == 0 {
		return nil, fmt.Errorf("no API providers available. Set FINNHUB_API_KEY or ALPHAVANTAGE_API_KEY, or enable yahoo")
	}
	var p provider.Provider = provider.NewFallbackProvider(logging.Component(log, "provider"), rec, providers...)

	if cache := a.createCache(); cache != nil {
		p = provider.NewCachingProvider(p, cache, cfg.Scanner.HistoryDays, log, rec)
	}
	a.provider = p

	names := make([]string, 0, len(providers))
	for _, pr := range providers {
		names = append(names, pr.Name())
	}
	log.Debug().Strs("providers", names).Str("cache", cfg.Cache.Backend).Msg("data providers ready")

	a.scanner = scanner.NewScanner(p, scanner.Config{
		Delay:       cfg.Scanner.Delay,
		HistoryDays: cfg.Scanner.HistoryDays,
		Params:      cfg.ScoreParams(),
	}, log, rec)

	return a, nil
}

// Close releases cache connections
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}

// createProviders builds the fallback order: Finnhub, Alpha Vantage, Yahoo
func createProviders(cfg *config.Config) []provider.Provider {
	var providers []provider.Provider
	timeout := provider.WithTimeout(cfg.API.Timeout)

	// Finnhub (primary - higher rate limit)
	if cfg.API.Finnhub.Key != "" {
		providers = append(providers, provider.NewFinnhubProvider(cfg.API.Finnhub.Key, cfg.API.Finnhub.RateLimit, timeout))
	}

	// Alpha Vantage (secondary - 5 calls/min on the free tier)
	if cfg.API.AlphaVantage.Key != "" {
		providers = append(providers, provider.NewAlphaVantageProvider(cfg.API.AlphaVantage.Key, cfg.API.AlphaVantage.RateLimit, timeout))
	}

	// Yahoo (keyless fallback)
	if cfg.API.Yahoo.Enabled {
		providers = append(providers, provider.NewYahooProvider(timeout))
	}

	return providers
}

func (a *app) createCache() provider.Cache {
	switch a.cfg.Cache.Backend {
	case "memory":
		return provider.NewMemoryCache(a.cfg.Cache.TTL)
	case "redis":
		rc := provider.NewRedisCache(a.cfg.Cache.Redis, a.cfg.Cache.TTL)
		if err := rc.Ping(context.Background()); err != nil {
			a.log.Warn().Err(err).Str("addr", a.cfg.Cache.Redis.Addr).Msg("redis unreachable, reads will fall through")
		}
		a.closers = append(a.closers, rc.Close)
		return rc
	default:
		return nil
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
