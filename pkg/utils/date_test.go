package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBusinessDays_SkipsWeekend(t *testing.T) {
	// 2024-01-05 is a Friday.
	friday := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	days := NextBusinessDays(friday, 3)

	require.Len(t, days, 3)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), days[0]) // Monday
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), days[1])
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), days[2])
}

func TestNextBusinessDays_StartIsExcluded(t *testing.T) {
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	days := NextBusinessDays(monday, 1)

	require.Len(t, days, 1)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), days[0])
}

func TestNextBusinessDays_LongHorizonHasNoWeekends(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, d := range NextBusinessDays(start, 30) {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestFormatDates(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, []string{"2024-01-08", "2024-01-09"}, FormatDates(dates, "2006-01-02"))
}
