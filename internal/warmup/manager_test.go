package warmup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/bars"
	"github.com/dgnsrekt/barcache/internal/config"
	"github.com/dgnsrekt/barcache/internal/loader"
	"github.com/dgnsrekt/barcache/internal/storage"
)

type mockFetcher struct {
	mu       sync.Mutex
	calls    int
	failFor  string
	rowCount int
}

func (m *mockFetcher) FetchBars(ctx context.Context, symbols []string, tf bars.TimeFrame, start, end time.Time) (*bars.Table, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	for _, s := range symbols {
		if s == m.failFor {
			return nil, errors.New("invalid symbol: " + s)
		}
	}

	var rows []bars.Bar
	for _, s := range symbols {
		rows = append(rows, bars.Bar{Symbol: s, Timestamp: start, Close: 1})
	}
	return bars.NewTable(rows), nil
}

func newManager(t *testing.T, fetcher *mockFetcher, strategy string, workers int) (*Manager, *loader.Loader) {
	t.Helper()
	store := storage.NewStore(t.TempDir())
	l, err := loader.New(fetcher, store, strategy, zap.NewNop())
	require.NoError(t, err)
	return NewManager(l, workers, zap.NewNop()), l
}

func TestWarmupManager(t *testing.T) {
	fetcher := &mockFetcher{failFor: "BAD"}
	mgr, l := newManager(t, fetcher, config.KeyStrategyCount, 2)

	requests := []bars.Request{
		{Tickers: []string{"AAPL", "MSFT"}, Years: 1, TimeFrame: bars.Day},
		{Tickers: []string{"SPY"}, Years: 0, TimeFrame: bars.Hour},
		{Tickers: []string{"BAD"}, Years: 3, TimeFrame: bars.Day},
	}

	result, err := mgr.Execute(context.Background(), requests)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 0, result.Cached)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "invalid symbol: BAD")

	cached, err := l.Cached(requests[0])
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestWarmupManager_SkipsCached(t *testing.T) {
	fetcher := &mockFetcher{}
	mgr, _ := newManager(t, fetcher, config.KeyStrategyCount, 1)

	requests := []bars.Request{{Tickers: []string{"AAPL"}, Years: 1, TimeFrame: bars.Day}}

	_, err := mgr.Execute(context.Background(), requests)
	require.NoError(t, err)

	result, err := mgr.Execute(context.Background(), requests)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Cached)
	assert.Equal(t, 0, result.Fetched)
	assert.Equal(t, 1, fetcher.calls)
}

// Requests sharing a cache file are only fetched once per batch.
func TestWarmupManager_DedupesKeys(t *testing.T) {
	fetcher := &mockFetcher{}
	mgr, _ := newManager(t, fetcher, config.KeyStrategyCount, 4)

	requests := []bars.Request{
		{Tickers: []string{"AAPL", "MSFT"}, Years: 1, TimeFrame: bars.Day},
		{Tickers: []string{"TSLA", "NVDA"}, Years: 1, TimeFrame: bars.Day},
		{Tickers: []string{"AAPL", "MSFT"}, Years: 1, TimeFrame: bars.Day},
	}

	result, err := mgr.Execute(context.Background(), requests)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Duplicates)
	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, fetcher.calls)
}

func TestWarmupManager_SymbolsStrategyKeepsDistinctSets(t *testing.T) {
	fetcher := &mockFetcher{}
	mgr, _ := newManager(t, fetcher, config.KeyStrategySymbols, 2)

	requests := []bars.Request{
		{Tickers: []string{"AAPL", "MSFT"}, Years: 1, TimeFrame: bars.Day},
		{Tickers: []string{"TSLA", "NVDA"}, Years: 1, TimeFrame: bars.Day},
	}

	tasks, dups := mgr.Tasks(requests)
	assert.Len(t, tasks, 2)
	assert.Equal(t, 0, dups)

	result, err := mgr.Execute(context.Background(), requests)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
}

func TestWarmupManager_Empty(t *testing.T) {
	mgr, _ := newManager(t, &mockFetcher{}, config.KeyStrategyCount, 1)

	result, err := mgr.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}
