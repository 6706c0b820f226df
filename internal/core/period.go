package core

import "time"

// PeriodBounds returns the half-open interval [start, end) covered by a
// period relative to now, in now's location.
//
//   - Week starts on the most recent Monday at 00:00 (now itself when now is
//     a Monday).
//   - Month starts on the 1st of now's month at 00:00.
//   - Year starts on January 1st of now's year at 00:00.
//   - Day starts at 00:00 of now's date.
//
// The end bound is always exclusive and equal to the start of the day after
// now, so a transaction recorded later today is still inside the interval.
func PeriodBounds(p Period, now time.Time) (start, end time.Time) {
	year, month, day := now.Date()
	loc := now.Location()

	switch p {
	case Week:
		back := (int(now.Weekday()) - int(time.Monday) + 7) % 7
		start = time.Date(year, month, day-back, 0, 0, 0, 0, loc)
	case Month:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	case Year:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	default:
		start = time.Date(year, month, day, 0, 0, 0, 0, loc)
	}

	end = time.Date(year, month, day+1, 0, 0, 0, 0, loc)
	return start, end
}

// FilterByPeriod returns the transactions whose date falls inside the
// period's [start, end) interval, preserving insertion order.
func FilterByPeriod(transactions []Transaction, p Period, now time.Time) []Transaction {
	start, end := PeriodBounds(p, now)
	var out []Transaction
	for _, t := range transactions {
		ts := TimeFromMillis(t.Date)
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, t)
		}
	}
	return out
}
