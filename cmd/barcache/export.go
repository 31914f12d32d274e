package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/export"
)

func exportCmd() *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "export OUTPUT",
		Short: "Write a cached bar table as JSONL",
		Long: `Write the cached bars for the given request to OUTPUT as JSON Lines,
one bar per line. An OUTPUT ending in .zst is zstd-compressed.

The cache entry must already exist; export never calls the API.

Examples:
  barcache export --tickers AAPL,MSFT --years 2 bars.jsonl
  barcache export --tickers SPY --timeframe 1Hour spy.jsonl.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			l, store, err := newLoader(cfg)
			if err != nil {
				return err
			}

			name := l.FileName(req)
			cached, err := store.Exists(name)
			if err != nil {
				return err
			}
			if !cached {
				return fmt.Errorf("%s is not cached; run load first", name)
			}

			table, err := store.Read(name)
			if err != nil {
				return err
			}

			if err := export.WriteFile(args[0], table); err != nil {
				return err
			}

			logger.Info("exported",
				zap.String("file", name),
				zap.String("output", args[0]),
				zap.Int("rows", table.Len()),
			)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
