package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/dgnsrekt/barcache/internal/bars"
)

// row is the on-disk layout of one bar.
type row struct {
	Symbol     string  `parquet:"symbol,dict"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"`
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     float64 `parquet:"volume"`
	TradeCount float64 `parquet:"trade_count"`
	VWAP       float64 `parquet:"vwap"`
}

// Store reads and writes Snappy-compressed Parquet cache files in one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether the named cache file is present.
func (s *Store) Exists(name string) (bool, error) {
	_, err := os.Stat(s.Path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates the cache directory. Read and Write never create it.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0750)
}

func (s *Store) Read(name string) (*bars.Table, error) {
	rows, err := parquet.ReadFile[row](s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	out := make([]bars.Bar, len(rows))
	for i, r := range rows {
		out[i] = bars.Bar{
			Symbol:     r.Symbol,
			Timestamp:  time.UnixMilli(r.Timestamp).UTC(),
			Open:       r.Open,
			High:       r.High,
			Low:        r.Low,
			Close:      r.Close,
			Volume:     r.Volume,
			TradeCount: r.TradeCount,
			VWAP:       r.VWAP,
		}
	}
	return &bars.Table{Bars: out}, nil
}

// Write stores table under name. The file is written next to its final path
// and renamed into place, so readers never observe a partial file.
func (s *Store) Write(name string, table *bars.Table) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("cache directory: %w", err)
	}

	rows := make([]row, 0, table.Len())
	if table != nil {
		for _, b := range table.Bars {
			rows = append(rows, row{
				Symbol:     b.Symbol,
				Timestamp:  b.Timestamp.UnixMilli(),
				Open:       b.Open,
				High:       b.High,
				Low:        b.Low,
				Close:      b.Close,
				Volume:     b.Volume,
				TradeCount: b.TradeCount,
				VWAP:       b.VWAP,
			})
		}
	}

	destPath := s.Path(name)
	tmpPath := destPath + ".tmp"

	if err := parquet.WriteFile(tmpPath, rows, parquet.Compression(&parquet.Snappy)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", name, err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Entry describes one cache file found on disk.
type Entry struct {
	Name      string    `json:"name"`
	Tickers   int       `json:"tickers"`
	SetDigest string    `json:"set_digest,omitempty"`
	Years     int       `json:"years"`
	TimeFrame string    `json:"timeframe"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
}

var entryPattern = regexp.MustCompile(`^stock_data__(\d+)_tickets(?:_([0-9a-f]{8}))?__(\d+)_years__([0-9]+[A-Za-z]+)_timeframe\.parquet$`)

// ParseName splits a cache filename into its key parts.
func ParseName(name string) (Entry, bool) {
	m := entryPattern.FindStringSubmatch(name)
	if m == nil {
		return Entry{}, false
	}
	tickers, _ := strconv.Atoi(m[1])
	years, _ := strconv.Atoi(m[3])
	return Entry{
		Name:      name,
		Tickers:   tickers,
		SetDigest: m[2],
		Years:     years,
		TimeFrame: m[4],
	}, true
}

// List returns the cache files in the directory sorted by name. Files that do
// not follow the cache naming scheme are ignored.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		entry, ok := ParseName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entry.Size = info.Size()
		entry.ModTime = info.ModTime()
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
