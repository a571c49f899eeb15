package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"screener/internal/daemon"
)

// watchFlags override the configured watch loop settings
type watchFlags struct {
	interval time.Duration
	always   bool
	dataDir  string
}

func (f *watchFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "time between scans, e.g. 15m (default from config)")
	cmd.Flags().BoolVar(&f.always, "always", false, "scan outside market hours too")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "write each scan as JSON to this directory")
}

func (f *watchFlags) config(cmd *cobra.Command, a *app) (daemon.Config, error) {
	cfg := a.cfg.Watch
	if cmd.Flags().Changed("interval") {
		if f.interval <= 0 {
			return cfg, fmt.Errorf("--interval must be positive")
		}
		cfg.Interval = f.interval
	}
	if f.always {
		cfg.MarketHoursOnly = false
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	return cfg, nil
}

func newWatchCmd() *cobra.Command {
	var (
		flags scanFlags
		watch watchFlags
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan on an interval and log the top picks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := flags.request(cmd, a)
			if err != nil {
				return err
			}
			cfg, err := watch.config(cmd, a)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			return daemon.NewDaemon(cfg, a.scanner, req, a.log).Run(ctx)
		},
	}

	flags.register(cmd)
	watch.register(cmd)
	return cmd
}
