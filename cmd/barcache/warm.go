package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/bars"
	"github.com/dgnsrekt/barcache/internal/notify"
	"github.com/dgnsrekt/barcache/internal/warmup"
)

func warmCmd() *cobra.Command {
	var (
		workers int
		mkdir   bool
	)

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Fetch every request listed under warm.requests in the config",
		Long: `Populate the cache for the batch of requests configured under
warm.requests. Requests that are already cached are skipped, and requests
that map to the same cache file are fetched once.

Example config:
  warm:
    workers: 2
    requests:
      - tickers: [AAPL, MSFT]
        years: 2
        timeframe: 1Day`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var requests []bars.Request
			for _, wr := range cfg.Warm.Requests {
				req, err := wr.Request()
				if err != nil {
					return err
				}
				requests = append(requests, req)
			}

			if len(requests) == 0 {
				logger.Warn("no warm requests configured")
				return nil
			}

			l, store, err := newLoader(cfg)
			if err != nil {
				return err
			}

			if mkdir {
				if err := store.EnsureDir(); err != nil {
					return fmt.Errorf("creating cache directory: %w", err)
				}
			}

			n := cfg.Warm.Workers
			if workers > 0 {
				n = workers
			}

			notifier := notify.New(cfg.Notify, logger)
			start := time.Now()

			result, err := warmup.NewManager(l, n, logger).Execute(ctx, requests)
			if err != nil {
				if result != nil {
					_ = notifier.SendFailure(ctx, result, time.Since(start), err)
				}
				return err
			}

			logger.Info("warm complete",
				zap.Int("total", result.Total),
				zap.Int("fetched", result.Fetched),
				zap.Int("cached", result.Cached),
				zap.Int("duplicates", result.Duplicates),
				zap.Int("failed", result.Failed),
			)

			if result.Failed > 0 {
				for _, e := range result.Errors {
					logger.Error("warm error", zap.String("error", e))
				}
				err := fmt.Errorf("%d requests failed", result.Failed)
				_ = notifier.SendFailure(ctx, result, time.Since(start), err)
				return err
			}

			_ = notifier.SendSuccess(ctx, result, time.Since(start))
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "override warm.workers")
	cmd.Flags().BoolVar(&mkdir, "mkdir", false, "create the cache directory if missing")

	return cmd
}
