package loader

import (
	"time"

	"github.com/dgnsrekt/barcache/internal/bars"
)

// Plan describes what Load would do for a request.
type Plan struct {
	FileName    string    `json:"file_name"`
	Path        string    `json:"path"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Cached      bool      `json:"cached"`
	TradingDays int       `json:"trading_days"`
}

func (l *Loader) Plan(req bars.Request) (Plan, error) {
	if err := req.Validate(); err != nil {
		return Plan{}, err
	}

	name := l.key(req)
	cached, err := l.store.Exists(name)
	if err != nil {
		return Plan{}, err
	}

	start, end := DateRange(req.Years)
	return Plan{
		FileName:    name,
		Path:        l.store.Path(name),
		Start:       start,
		End:         end,
		Cached:      cached,
		TradingDays: l.TradingDays(start, end),
	}, nil
}

var newYork = loadLocationOrUTC("America/New_York")

// TradingDays counts NYSE sessions between start and end, inclusive of both dates.
func (l *Loader) TradingDays(start, end time.Time) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		// Check at noon New York time so the calendar date is unambiguous
		noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, newYork)
		if l.nyse.IsBusinessDay(noon) {
			n++
		}
	}
	return n
}

func loadLocationOrUTC(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
