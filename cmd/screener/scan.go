package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"screener/internal/market"
	"screener/internal/scanner"
	"screener/internal/score"
	"screener/internal/symbols"
	"screener/pkg/model"
)

// scanFlags selects symbols and weights for scan, watch and serve
type scanFlags struct {
	symbols   string
	watchlist string
	universe  string
	max       int
	profile   string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.symbols, "symbols", "", "symbols to scan, separated by , ; tab or newline")
	cmd.Flags().StringVar(&f.watchlist, "watchlist", "", "JSON watchlist file used when --symbols is empty")
	cmd.Flags().StringVar(&f.universe, "universe", "default", "built-in list when no symbols are given: default, nasdaq100, megacap")
	cmd.Flags().IntVar(&f.max, "max", 5, "scan only the first N symbols (0 for all)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "weight profile (default from config)")
}

// request builds a scan request; unset flags fall back to the config
func (f *scanFlags) request(cmd *cobra.Command, a *app) (scanner.Request, error) {
	profile := f.profile
	if profile == "" {
		profile = a.cfg.DefaultProfile
	}
	weights, err := a.cfg.Profiles.Get(profile)
	if err != nil {
		return scanner.Request{}, err
	}

	list, err := resolveSymbols(f.symbols, f.watchlist, f.universe)
	if err != nil {
		return scanner.Request{}, err
	}

	limit := f.max
	if !cmd.Flags().Changed("max") {
		limit = a.cfg.Scanner.MaxSymbols
	}

	return scanner.Request{
		Symbols: list,
		Profile: profile,
		Weights: weights,
		Max:     limit,
	}, nil
}

func newScanCmd() *cobra.Command {
	var (
		flags  scanFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score and rank symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q: use table or json", format)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := flags.request(cmd, a)
			if err != nil {
				return err
			}
			total := len(scanner.Limit(req.Symbols, req.Max))

			ctx, stop := signalContext()
			defer stop()

			if format == "table" {
				printMarketStatus()
				fmt.Printf("Scanning %d of %d symbols with profile %s...\n\n", total, len(req.Symbols), req.Profile)
				bar := newProgressBar(total)
				req.Progress = func(scanned, total int, last model.ScoredSymbol) {
					bar.Describe(fmt.Sprintf("%-6s", last.Symbol))
					_ = bar.Add(1)
				}
			}

			result, err := a.scanner.Scan(ctx, req)
			if err != nil {
				if ctx.Err() == nil {
					return err
				}
				fmt.Fprintln(os.Stderr, "\nInterrupted. Showing partial results.")
			}

			if format == "json" {
				return printJSON(result)
			}
			printScanTable(result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

// resolveSymbols picks --symbols, then the watchlist, then a universe
func resolveSymbols(symbolList, watchlist, universe string) ([]string, error) {
	if list := symbols.Parse(symbolList); len(list) > 0 {
		return list, nil
	}
	if watchlist != "" {
		w, err := symbols.LoadWatchlist(watchlist)
		if err != nil {
			return nil, err
		}
		if len(w.Symbols) > 0 {
			return w.Symbols, nil
		}
	}
	return symbols.GetUniverse(symbols.Universe(universe))
}

func printMarketStatus() {
	st := market.DefaultSchedule().StatusAt(time.Now())
	if st.IsOpen {
		fmt.Printf("Market: open (closes in %s)\n", market.FormatDuration(st.TimeToClose))
		return
	}
	fmt.Printf("Market: %s (opens in %s)\n", st.Reason, market.FormatDuration(st.TimeToOpen))
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printScanTable(result *model.ScanResult) {
	if len(result.Results) == 0 {
		fmt.Println("No symbols scanned.")
		return
	}

	header := []string{"#", "Symbol", "Score"}
	header = append(header, upperNames()...)
	header = append(header, "Reason")
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))

	for i, r := range result.Results {
		row := []string{fmt.Sprintf("%d", i+1), r.Symbol, fmt.Sprintf("%.2f", r.Score)}
		for _, name := range score.Names {
			if v, ok := r.Components[name]; ok {
				row = append(row, fmt.Sprintf("%.1f", v))
			} else {
				row = append(row, "-")
			}
		}
		reason := r.Reason
		if r.Status == model.StatusError && r.Err != "" {
			reason = fmt.Sprintf("%s: %s", r.Reason, r.Err)
		}
		row = append(row, reason)
		table.Append(row)
	}
	table.Render()

	fmt.Printf("\nScanned %d symbols in %s (profile %s", result.TotalScanned, result.ScanTime.Round(time.Millisecond), result.Profile)
	if result.Partial {
		fmt.Print(", partial")
	}
	fmt.Println(")")
}

func upperNames() []string {
	out := make([]string, len(score.Names))
	for i, n := range score.Names {
		out[i] = strings.ToUpper(n)
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
