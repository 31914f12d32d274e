package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scmhub/calendar"
	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/bars"
	"github.com/dgnsrekt/barcache/internal/storage"
)

// ErrFetch marks failures of the upstream call, as opposed to cache I/O.
var ErrFetch = errors.New("fetching bars")

// Fetcher retrieves bars from the upstream data API.
type Fetcher interface {
	FetchBars(ctx context.Context, symbols []string, tf bars.TimeFrame, start, end time.Time) (*bars.Table, error)
}

// Loader returns bars from the local cache and falls back to the fetcher on a miss.
type Loader struct {
	fetcher Fetcher
	store   *storage.Store
	key     KeyFunc
	nyse    *calendar.Calendar
	logger  *zap.Logger
}

func New(fetcher Fetcher, store *storage.Store, strategy string, logger *zap.Logger) (*Loader, error) {
	key, err := KeyFuncFor(strategy)
	if err != nil {
		return nil, err
	}
	return &Loader{
		fetcher: fetcher,
		store:   store,
		key:     key,
		nyse:    calendar.XNYS(),
		logger:  logger,
	}, nil
}

// FileName returns the cache filename for req under the configured strategy.
func (l *Loader) FileName(req bars.Request) string {
	return l.key(req)
}

// Cached reports whether req is already on disk.
func (l *Loader) Cached(req bars.Request) (bool, error) {
	return l.store.Exists(l.key(req))
}

// Load returns the bars for req. A cached file is returned as-is; otherwise
// the fetcher is called exactly once and its result is written to the cache.
// Errors are not retried here.
func (l *Loader) Load(ctx context.Context, req bars.Request) (*bars.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := l.key(req)

	exists, err := l.store.Exists(name)
	if err != nil {
		return nil, fmt.Errorf("checking cache: %w", err)
	}

	if exists {
		table, err := l.store.Read(name)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("cache hit", zap.String("file", name), zap.Int("rows", table.Len()))
		return table, nil
	}

	start, end := DateRange(req.Years)
	l.logger.Info("fetching bars",
		zap.String("file", name),
		zap.Strings("tickers", req.Tickers),
		zap.String("timeframe", req.TimeFrame.String()),
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")),
	)

	table, err := l.fetcher.FetchBars(ctx, req.Tickers, req.TimeFrame, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if err := l.store.Write(name, table); err != nil {
		return nil, err
	}

	l.logger.Info("cached bars", zap.String("file", name), zap.Int("rows", table.Len()))
	return table, nil
}
