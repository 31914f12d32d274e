package bars

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeFrameUnit is the base granularity of a bar.
type TimeFrameUnit string

const (
	UnitMinute TimeFrameUnit = "Min"
	UnitHour   TimeFrameUnit = "Hour"
	UnitDay    TimeFrameUnit = "Day"
	UnitWeek   TimeFrameUnit = "Week"
	UnitMonth  TimeFrameUnit = "Month"
)

// TimeFrame is a bar granularity such as 1Day or 15Min.
type TimeFrame struct {
	Amount int
	Unit   TimeFrameUnit
}

var (
	Minute = TimeFrame{Amount: 1, Unit: UnitMinute}
	Hour   = TimeFrame{Amount: 1, Unit: UnitHour}
	Day    = TimeFrame{Amount: 1, Unit: UnitDay}
	Week   = TimeFrame{Amount: 1, Unit: UnitWeek}
	Month  = TimeFrame{Amount: 1, Unit: UnitMonth}
)

// String returns the API form, e.g. "1Day". Cache filenames use it verbatim.
func (tf TimeFrame) String() string {
	return strconv.Itoa(tf.Amount) + string(tf.Unit)
}

var validMonthAmounts = map[int]bool{1: true, 2: true, 3: true, 6: true, 12: true}

func (tf TimeFrame) Validate() error {
	if tf.Amount < 1 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidTimeFrame, tf.Amount)
	}
	switch tf.Unit {
	case UnitMinute:
		if tf.Amount > 59 {
			return fmt.Errorf("%w: minute amount must be 1-59, got %d", ErrInvalidTimeFrame, tf.Amount)
		}
	case UnitHour:
		if tf.Amount > 23 {
			return fmt.Errorf("%w: hour amount must be 1-23, got %d", ErrInvalidTimeFrame, tf.Amount)
		}
	case UnitDay, UnitWeek:
		if tf.Amount != 1 {
			return fmt.Errorf("%w: %s amount must be 1, got %d", ErrInvalidTimeFrame, tf.Unit, tf.Amount)
		}
	case UnitMonth:
		if !validMonthAmounts[tf.Amount] {
			return fmt.Errorf("%w: month amount must be one of 1, 2, 3, 6, 12, got %d", ErrInvalidTimeFrame, tf.Amount)
		}
	default:
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidTimeFrame, tf.Unit)
	}
	return nil
}

var unitAliases = map[string]TimeFrameUnit{
	"min":    UnitMinute,
	"minute": UnitMinute,
	"hour":   UnitHour,
	"day":    UnitDay,
	"week":   UnitWeek,
	"month":  UnitMonth,
}

// ParseTimeFrame accepts "1Day", "15Min", "day", "Minute" and similar forms.
// A missing amount means 1.
func ParseTimeFrame(s string) (TimeFrame, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	amount := 1
	if i > 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return TimeFrame{}, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, s)
		}
		amount = n
	}

	unit, ok := unitAliases[strings.ToLower(s[i:])]
	if !ok {
		return TimeFrame{}, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, s)
	}

	tf := TimeFrame{Amount: amount, Unit: unit}
	if err := tf.Validate(); err != nil {
		return TimeFrame{}, err
	}
	return tf, nil
}
