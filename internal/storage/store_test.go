package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/barcache/internal/bars"
)

const testName = "stock_data__2_tickets__2_years__1Day_timeframe.parquet"

func sampleTable() *bars.Table {
	t0 := time.Date(2025, 1, 2, 5, 0, 0, 0, time.UTC)
	return bars.NewTable([]bars.Bar{
		{Symbol: "AAPL", Timestamp: t0, Open: 248, High: 249, Low: 241, Close: 243.8, Volume: 1000, TradeCount: 25, VWAP: 244.1},
		{Symbol: "AAPL", Timestamp: t0.AddDate(0, 0, 1), Open: 244, High: 245, Low: 241, Close: 243, Volume: 900, TradeCount: 20, VWAP: 243.3},
		{Symbol: "MSFT", Timestamp: t0, Open: 420.1, High: 425, Low: 418, Close: 421.5, Volume: 1200, TradeCount: 30, VWAP: 421.2},
	})
}

func TestStoreWriteRead(t *testing.T) {
	store := NewStore(t.TempDir())

	exists, err := store.Exists(testName)
	require.NoError(t, err)
	assert.False(t, exists)

	want := sampleTable()
	require.NoError(t, store.Write(testName, want))

	exists, err = store.Exists(testName)
	require.NoError(t, err)
	assert.True(t, exists)

	// Verify no .tmp file exists
	_, err = os.Stat(store.Path(testName) + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should not exist after successful write")

	got, err := store.Read(testName)
	require.NoError(t, err)
	assert.Equal(t, want.Bars, got.Bars)
}

func TestStoreWriteEmptyTable(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Write(testName, bars.NewTable(nil)))

	got, err := store.Read(testName)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestStoreWriteMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "stock data"))

	err := store.Write(testName, sampleTable())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "stock data")
	store := NewStore(dir)

	require.NoError(t, store.EnsureDir())
	require.NoError(t, store.Write(testName, sampleTable()))
}

func TestStoreReadCorrupt(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(testName), []byte("not parquet"), 0600))

	_, err := store.Read(testName)
	assert.Error(t, err)
}

func TestParseName(t *testing.T) {
	entry, ok := ParseName(testName)
	require.True(t, ok)
	assert.Equal(t, 2, entry.Tickers)
	assert.Equal(t, "", entry.SetDigest)
	assert.Equal(t, 2, entry.Years)
	assert.Equal(t, "1Day", entry.TimeFrame)

	entry, ok = ParseName("stock_data__3_tickets_0a1b2c3d__0_years__15Min_timeframe.parquet")
	require.True(t, ok)
	assert.Equal(t, 3, entry.Tickers)
	assert.Equal(t, "0a1b2c3d", entry.SetDigest)
	assert.Equal(t, "15Min", entry.TimeFrame)

	_, ok = ParseName("notes.txt")
	assert.False(t, ok)
	_, ok = ParseName(testName + ".tmp")
	assert.False(t, ok)
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Write(testName, sampleTable()))
	require.NoError(t, store.Write("stock_data__1_tickets__0_years__1Hour_timeframe.parquet", sampleTable()))
	require.NoError(t, os.WriteFile(store.Path("README.md"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(store.Path("archive"), 0750))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "stock_data__1_tickets__0_years__1Hour_timeframe.parquet", entries[0].Name)
	assert.Equal(t, testName, entries[1].Name)
	assert.Greater(t, entries[1].Size, int64(0))
}
