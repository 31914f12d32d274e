package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dgnsrekt/barcache/internal/bars"
	"github.com/dgnsrekt/barcache/internal/config"
)

// KeyFunc maps a request to its cache filename.
type KeyFunc func(req bars.Request) string

// FileName builds the cache filename from ticker count, years and timeframe.
// Two different ticker lists of the same length share a file.
func FileName(tickerCount, years int, tf bars.TimeFrame) string {
	return fmt.Sprintf("stock_data__%d_tickets__%d_years__%s_timeframe.parquet", tickerCount, years, tf)
}

// SymbolsFileName is FileName with a digest of the ticker set, so only the
// same set (in any order or case) shares a file.
func SymbolsFileName(tickers []string, years int, tf bars.TimeFrame) string {
	return fmt.Sprintf("stock_data__%d_tickets_%s__%d_years__%s_timeframe.parquet",
		len(tickers), TickerSetDigest(tickers), years, tf)
}

var tickerSetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("barcache/ticker-set"))

// TickerSetDigest returns 8 hex chars identifying the normalised ticker set.
func TickerSetDigest(tickers []string) string {
	norm := make([]string, len(tickers))
	for i, t := range tickers {
		norm[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	sort.Strings(norm)
	return uuid.NewSHA1(tickerSetNamespace, []byte(strings.Join(norm, ","))).String()[:8]
}

// KeyFuncFor returns the key function for a config.KeyStrategy* value.
func KeyFuncFor(strategy string) (KeyFunc, error) {
	switch strategy {
	case config.KeyStrategyCount, "":
		return func(req bars.Request) string {
			return FileName(len(req.Tickers), req.Years, req.TimeFrame)
		}, nil
	case config.KeyStrategySymbols:
		return func(req bars.Request) string {
			return SymbolsFileName(req.Tickers, req.Years, req.TimeFrame)
		}, nil
	default:
		return nil, fmt.Errorf("unknown cache key strategy: %q", strategy)
	}
}
