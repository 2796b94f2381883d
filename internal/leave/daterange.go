package leave

import (
	"time"

	"github.com/peopledesk/leave-management/internal"
)

// DaysBetween returns the number of calendar days covered by [start, end],
// inclusive of both endpoints: a same-day request counts as one day.
// Timestamps are truncated to their date components first, so the result
// only depends on the calendar dates.
func DaysBetween(start, end time.Time) (int, error) {
	s := toDate(start)
	e := toDate(end)

	if e.Before(s) {
		return 0, internal.ErrInvalidDateRange
	}

	return int(e.Sub(s).Hours()/24) + 1, nil
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
