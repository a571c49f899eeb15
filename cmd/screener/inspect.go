package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"screener/internal/analyzer"
	"screener/internal/symbols"
	"screener/internal/zigzag"
)

func newInspectCmd() *cobra.Command {
	var (
		threshold float64
		profile   string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "inspect SYMBOL",
		Short: "Show indicators, score and ZigZag pivots for one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := symbols.Normalize(args[0])
			if !symbols.IsValidSymbol(symbol) {
				return fmt.Errorf("invalid symbol: %s", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.ZigZag.Threshold
			}
			if profile == "" {
				profile = a.cfg.DefaultProfile
			}
			weights, err := a.cfg.Profiles.Get(profile)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			report, err := a.scanner.Inspect(ctx, symbol, threshold, weights)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(report)
			}
			printReport(report, profile)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 5, "ZigZag reversal threshold in percent")
	cmd.Flags().StringVar(&profile, "profile", "", "weight profile (default from config)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func printReport(r *analyzer.Report, profile string) {
	fmt.Printf("%s  %d bars  close %.2f  as of %s\n", r.Symbol, r.Bars, r.Close, r.AsOf.Format("2006-01-02"))
	fmt.Printf("Trend: %s (%.2f%% vs short SMA, %.2f%% vs long SMA)  RSI: %s  Volume: %s (%.2fx)\n\n",
		r.TrendSignal, r.PriceVsShort, r.PriceVsLong, r.RSISignal, r.VolumeSignal, r.VolumeRatio)

	// Latest indicator values
	names := make([]string, 0, len(r.Latest))
	for name := range r.Latest {
		names = append(names, name)
	}
	sort.Strings(names)
	latest := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader([]string{"Indicator", "Latest"}))
	for _, name := range names {
		latest.Append([]string{name, fmt.Sprintf("%.4f", r.Latest[name])})
	}
	latest.Render()

	// Score components
	fmt.Println("\n--- Score ---")
	comps := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader([]string{"Component", "Score", "Reasons"}))
	for _, c := range r.Score.Components {
		val := fmt.Sprintf("%.1f", c.Score)
		if !c.Available {
			val = "n/a"
		}
		comps.Append([]string{c.Name, val, strings.Join(c.Reasons, ", ")})
	}
	comps.Render()
	fmt.Printf("Weighted (%s): %.2f  %s\n", profile, r.Weighted, r.Score.Reason)

	// ZigZag
	fmt.Printf("\n--- ZigZag (%s) ---\n", r.ZigZag.Method)
	pivots := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader([]string{"Bar", "Kind", "Price"}))
	for _, p := range r.ZigZag.Pivots {
		pivots.Append([]string{fmt.Sprintf("%d", p.Index), string(p.Kind), fmt.Sprintf("%.2f", p.Price)})
	}
	pivots.Render()
	printChannel(r.ZigZag.Channel, r.Bars-1)

	if len(r.MACDSignals) > 0 {
		last := r.MACDSignals[len(r.MACDSignals)-1]
		fmt.Printf("Last MACD cross: %s at bar %d\n", last.Kind, last.Index)
	}
	if len(r.QQESignals) > 0 {
		last := r.QQESignals[len(r.QQESignals)-1]
		fmt.Printf("Last QQE cross: %s at bar %d\n", last.Kind, last.Index)
	}
	for _, w := range r.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

func printChannel(ch zigzag.Channel, lastBar int) {
	side := func(label string, l *zigzag.Line, derived bool) {
		if l == nil {
			fmt.Printf("%s: none\n", label)
			return
		}
		note := ""
		if derived {
			note = " (parallel)"
		}
		fmt.Printf("%s: slope %.4f, at last bar %.2f%s\n", label, l.Slope, l.At(float64(lastBar)), note)
	}
	side("Upper channel", ch.Upper, ch.UpperDerived)
	side("Lower channel", ch.Lower, ch.LowerDerived)
}
