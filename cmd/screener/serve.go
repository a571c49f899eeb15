package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"screener/internal/daemon"
	"screener/internal/score"
	"screener/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		background bool
		flags      scanFlags
		watch      watchFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}

			srv := web.NewServer(a.cfg, a.scanner, a.log, a.metrics, a.registry)

			ctx, stop := signalContext()
			defer stop()

			g, gctx := errgroup.WithContext(ctx)

			if background {
				req, err := flags.request(cmd, a)
				if err != nil {
					return err
				}
				cfg, err := watch.config(cmd, a)
				if err != nil {
					return err
				}
				d := daemon.NewDaemon(cfg, a.scanner, req, a.log)
				srv.SetLatest(d.Last)
				g.Go(func() error {
					return d.Run(gctx)
				})
			}

			g.Go(func() error {
				return srv.Start(port)
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	cmd.Flags().BoolVar(&background, "watch", false, "rescan in the background and serve /api/scan/latest")
	flags.register(cmd)
	watch.register(cmd)
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List weight profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			header := append([]string{"Profile"}, upperNames()...)
			table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
			for _, name := range cfg.Profiles.Names() {
				label := name
				if name == cfg.DefaultProfile {
					label += " *"
				}
				row := []string{label}
				w := cfg.Profiles[name]
				for _, c := range score.Names {
					row = append(row, fmt.Sprintf("%.2f", w.Weight(c)))
				}
				table.Append(row)
			}
			table.Render()
			fmt.Println("* default profile")
			return nil
		},
	}
}
