package loader

import "time"

// ReferenceEnd is the fixed end of every requested window.
var ReferenceEnd = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

// DateRange returns [ReferenceEnd - (years+1) years, ReferenceEnd]. The extra
// year gives downstream indicators warm-up history.
func DateRange(years int) (start, end time.Time) {
	end = ReferenceEnd
	start = end.AddDate(-(years + 1), 0, 0)
	return start, end
}
