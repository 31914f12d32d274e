package bars

import (
	"sort"
	"time"
)

// Bar is one aggregated price/volume record for a symbol over one interval.
type Bar struct {
	Symbol     string    `json:"symbol"`
	Timestamp  time.Time `json:"timestamp"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     float64   `json:"volume"`
	TradeCount float64   `json:"trade_count"`
	VWAP       float64   `json:"vwap"`
}

// Table holds bars for one or more symbols, ordered by symbol then timestamp.
type Table struct {
	Bars []Bar `json:"bars"`
}

func NewTable(bars []Bar) *Table {
	t := &Table{Bars: bars}
	t.Sort()
	return t
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Bars)
}

// Sort orders rows by (symbol, timestamp). Stable so duplicate keys keep arrival order.
func (t *Table) Sort() {
	sort.SliceStable(t.Bars, func(i, j int) bool {
		a, b := t.Bars[i], t.Bars[j]
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}

// Symbols returns the distinct symbols in table order.
func (t *Table) Symbols() []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range t.Bars {
		if !seen[b.Symbol] {
			seen[b.Symbol] = true
			out = append(out, b.Symbol)
		}
	}
	return out
}

// ForSymbol returns the rows for a single symbol.
func (t *Table) ForSymbol(symbol string) []Bar {
	var out []Bar
	for _, b := range t.Bars {
		if b.Symbol == symbol {
			out = append(out, b)
		}
	}
	return out
}
