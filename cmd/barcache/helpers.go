package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/barcache/internal/api"
	"github.com/dgnsrekt/barcache/internal/bars"
	"github.com/dgnsrekt/barcache/internal/config"
	"github.com/dgnsrekt/barcache/internal/loader"
	"github.com/dgnsrekt/barcache/internal/storage"
)

// requestFlags holds the flags shared by commands that address one cache entry
type requestFlags struct {
	tickers   []string
	years     int
	timeframe string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.tickers, "tickers", nil, "ticker symbols (comma separated)")
	cmd.Flags().IntVar(&f.years, "years", 0, "lookback years before 2025-12-31 (one extra year is always added)")
	cmd.Flags().StringVar(&f.timeframe, "timeframe", "1Day", "bar timeframe (e.g. 1Day, 1Hour, 15Min)")
}

func (f *requestFlags) request() (bars.Request, error) {
	tf, err := bars.ParseTimeFrame(f.timeframe)
	if err != nil {
		return bars.Request{}, err
	}
	req := bars.Request{Tickers: f.tickers, Years: f.years, TimeFrame: tf}
	if err := req.Validate(); err != nil {
		return bars.Request{}, err
	}
	return req, nil
}

// newClient builds the Alpaca client from config
func newClient(cfg *config.Config) *api.HTTPClient {
	return api.NewClient(
		cfg.API.BaseURL,
		cfg.API.KeyID,
		cfg.API.SecretKey,
		api.Options{
			Feed:       cfg.API.Feed,
			Adjustment: cfg.API.Adjustment,
			PageLimit:  cfg.Download.PageLimit,
			RatePerSec: cfg.Download.RatePerSecond,
			Timeout:    time.Duration(cfg.API.TimeoutSec) * time.Second,
			RetryCount: cfg.API.RetryCount,
			RetryDelay: time.Duration(cfg.API.RetryDelay) * time.Second,
		},
		logger,
	)
}

// newLoader wires client, store and loader together
func newLoader(cfg *config.Config) (*loader.Loader, *storage.Store, error) {
	store := storage.NewStore(cfg.Cache.Directory)
	l, err := loader.New(newClient(cfg), store, cfg.Cache.KeyStrategy, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating loader: %w", err)
	}
	return l, store, nil
}
