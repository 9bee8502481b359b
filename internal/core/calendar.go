package core

import (
	"fmt"
	"time"
)

// Month identifies a calendar month independent of any time zone.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month t falls in, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Valid reports whether the month number is within 1..12.
func (m Month) Valid() bool {
	return m.Month >= time.January && m.Month <= time.December
}

// Start returns midnight of the first day of the month in loc.
func (m Month) Start(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, orLocal(loc))
}

// Days returns the number of days in the month (28 to 31).
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Range returns the inclusive millisecond range covering the whole month in loc:
// the first millisecond of day 1 through the last millisecond of the last day.
func (m Month) Range(loc *time.Location) (start, end int64) {
	start = m.Start(loc).UnixMilli()
	end = m.Next().Start(loc).UnixMilli() - 1
	return start, end
}

// Contains reports whether the millisecond timestamp falls inside the month in loc.
func (m Month) Contains(ts int64, loc *time.Location) bool {
	start, end := m.Range(loc)
	return ts >= start && ts <= end
}

func (m Month) Next() Month {
	return m.add(1)
}

func (m Month) Prev() Month {
	return m.add(-1)
}

func (m Month) add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(t)
}

// FirstWeekday returns the weekday of the first day of the month in loc.
func (m Month) FirstWeekday(loc *time.Location) time.Weekday {
	return m.Start(loc).Weekday()
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
