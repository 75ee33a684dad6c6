package utils

import "time"

// NextBusinessDays returns the next n week days strictly after start.
// Forecast horizons are expressed in trading days, so weekends are skipped.
func NextBusinessDays(start time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	current := start
	for len(days) < n {
		current = current.AddDate(0, 0, 1)
		if wd := current.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, current)
	}
	return days
}

// FormatDates renders a series of dates in the chart wire format.
func FormatDates(dates []time.Time, layout string) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(layout)
	}
	return out
}
