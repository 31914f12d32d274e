package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/export"
)

func loadCmd() *cobra.Command {
	var (
		flags  requestFlags
		dryRun bool
		mkdir  bool
		out    string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load bars, fetching from Alpaca only when not cached",
		Long: `Load historical bars for the given tickers.

The window always ends at 2025-12-31 UTC and starts (years + 1) years earlier.
A cached Parquet file is returned as-is; otherwise the bars are fetched
and written to the cache directory.

Examples:
  # Two years of daily bars (plus one warm-up year)
  barcache load --tickers AAPL,MSFT --years 2 --timeframe 1Day

  # Show the cache file and date range without fetching
  barcache load --tickers SPY --years 0 --dry-run

  # Create the cache directory first and export the result
  barcache load --tickers SPY --mkdir --out spy.jsonl.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := flags.request()
			if err != nil {
				return err
			}

			l, store, err := newLoader(cfg)
			if err != nil {
				return err
			}

			if dryRun {
				plan, err := l.Plan(req)
				if err != nil {
					return err
				}
				fmt.Printf("File:         %s\n", plan.Path)
				fmt.Printf("Cached:       %t\n", plan.Cached)
				fmt.Printf("Range:        %s to %s\n", plan.Start.Format("2006-01-02"), plan.End.Format("2006-01-02"))
				fmt.Printf("Trading days: %d\n", plan.TradingDays)
				return nil
			}

			if mkdir {
				if err := store.EnsureDir(); err != nil {
					return fmt.Errorf("creating cache directory: %w", err)
				}
			}

			table, err := l.Load(ctx, req)
			if err != nil {
				return err
			}

			logger.Info("load complete",
				zap.String("file", store.Path(l.FileName(req))),
				zap.Int("rows", table.Len()),
				zap.Strings("symbols", table.Symbols()),
			)

			if out != "" {
				if err := export.WriteFile(out, table); err != nil {
					return fmt.Errorf("exporting: %w", err)
				}
				logger.Info("exported", zap.String("path", out))
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be loaded")
	cmd.Flags().BoolVar(&mkdir, "mkdir", false, "create the cache directory if missing")
	cmd.Flags().StringVar(&out, "out", "", "also write the bars as JSONL (.zst for zstd)")

	return cmd
}
