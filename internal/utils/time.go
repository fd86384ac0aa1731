package utils

import "time"

// DateString formats a time as the YYYYMMDD prefix used by round ids. Local
// time, so the daily sequence rolls over at local midnight.
func DateString(t time.Time) string {
	return t.Local().Format("20060102")
}

// StartOfDay returns local midnight of the given time.
func StartOfDay(t time.Time) time.Time {
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.Local)
}
