package bars

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidYears     = errors.New("years must be >= 0")
	ErrInvalidTimeFrame = errors.New("invalid timeframe")
)

// Request describes one historical bar load. Tickers are passed through as-is.
type Request struct {
	Tickers   []string
	Years     int
	TimeFrame TimeFrame
}

func (r Request) Validate() error {
	if r.Years < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidYears, r.Years)
	}
	return r.TimeFrame.Validate()
}

func (r Request) String() string {
	return fmt.Sprintf("%d tickers/%d years/%s", len(r.Tickers), r.Years, r.TimeFrame)
}
