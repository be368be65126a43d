package scheduler

import "time"

// ISODate is the layout used for day-granular dates at storage boundaries.
const ISODate = "2006-01-02"

// HorizonDays bounds every forward scan for free capacity. Days beyond the
// horizon are treated as unschedulable.
const HorizonDays = 365

// DayOf truncates a timestamp to its calendar day in UTC. All scheduling
// decisions operate on these normalized values; conversion from other
// representations happens at the boundary only.
func DayOf(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// NextDay returns the day following the given one.
func NextDay(t time.Time) time.Time {
	return DayOf(t).AddDate(0, 0, 1)
}
