package daemon

import (
	"context"
	"sync"
	"time"

	"screener/internal/market"
	"screener/internal/scanner"
	"screener/pkg/model"

	"github.com/rs/zerolog"
)

// Config holds watch loop settings
type Config struct {
	Interval        time.Duration `yaml:"interval" default:"30m" validate:"gt=0"` // time between scans
	MarketHoursOnly bool          `yaml:"market_hours_only" default:"true"`       // skip cycles while the market is closed
	Top             int           `yaml:"top" default:"5" validate:"gte=0"`       // results logged per cycle
	DataDir         string        `yaml:"data_dir"`                               // scan reports are written here; empty disables
}

// Daemon rescans a fixed request on an interval and keeps the latest result
type Daemon struct {
	config   Config
	scanner  *scanner.Scanner
	request  scanner.Request
	schedule market.Schedule
	now      func() time.Time
	log      zerolog.Logger

	mu     sync.RWMutex
	last   *model.ScanResult
	cycles int
}

// NewDaemon creates a watch loop for req
func NewDaemon(cfg Config, sc *scanner.Scanner, req scanner.Request, log zerolog.Logger) *Daemon {
	return &Daemon{
		config:   cfg,
		scanner:  sc,
		request:  req,
		schedule: market.DefaultSchedule(),
		now:      time.Now,
		log:      log.With().Str("component", "daemon").Logger(),
	}
}

// Run scans once immediately and then every Interval until ctx ends
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Info().Dur("interval", d.config.Interval).Int("symbols", len(d.request.Symbols)).
		Bool("market_hours_only", d.config.MarketHoursOnly).Msg("watch started")

	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	d.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Int("cycles", d.Cycles()).Msg("watch stopped")
			return nil
		case <-ticker.C:
			d.runCycle(ctx)
		}
	}
}

// runCycle runs one scan unless the market is closed
func (d *Daemon) runCycle(ctx context.Context) {
	status := d.schedule.StatusAt(d.now())
	if d.config.MarketHoursOnly && !status.IsOpen {
		d.log.Debug().Str("market", status.Reason).
			Str("opens_in", market.FormatDuration(status.TimeToOpen)).Msg("market closed, skipping scan")
		return
	}

	result, err := d.scanner.Scan(ctx, d.request)
	if err != nil {
		// cancelled mid-scan; keep the previous complete result
		d.log.Warn().Err(err).Msg("scan cycle interrupted")
		return
	}

	d.mu.Lock()
	d.last = result
	d.cycles++
	d.mu.Unlock()

	d.logTop(result)

	if d.config.DataDir != "" {
		path, err := SaveReport(d.config.DataDir, result)
		if err != nil {
			d.log.Error().Err(err).Msg("failed to save scan report")
		} else {
			d.log.Debug().Str("path", path).Msg("scan report saved")
		}
	}
}

func (d *Daemon) logTop(result *model.ScanResult) {
	n := d.config.Top
	if n > len(result.Results) {
		n = len(result.Results)
	}
	for i, r := range result.Results[:n] {
		d.log.Info().Int("rank", i+1).Str("symbol", r.Symbol).Float64("score", r.Score).
			Str("reason", r.Reason).Msg("top pick")
	}
}

// Last returns the most recent complete scan, nil before the first one
func (d *Daemon) Last() *model.ScanResult {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

// Cycles returns how many scans completed
func (d *Daemon) Cycles() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cycles
}
