package timezone_test

import (
	"homefix/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneInit(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestToAppTime(t *testing.T) {
	utcTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	appTime := timezone.ToAppTime(utcTime)

	assert.Equal(t, timezone.GetLocation(), appTime.Location())
	assert.True(t, appTime.Equal(utcTime))
}

func TestParseDate(t *testing.T) {
	day, err := timezone.ParseDate("2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01 00:00:00", timezone.Format(day, time.DateTime))

	_, err = timezone.ParseDate("01/01/2024")
	assert.Error(t, err)

	_, err = timezone.ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestDayBoundaries(t *testing.T) {
	day, err := timezone.Parse(time.DateTime, "2024-03-15 17:45:10")
	require.NoError(t, err)

	start := timezone.StartOfDay(day)
	end := timezone.EndOfDay(day)

	assert.Equal(t, "2024-03-15 00:00:00", timezone.Format(start, time.DateTime))
	assert.Equal(t, "2024-03-15", timezone.Format(end, time.DateOnly))
	assert.Equal(t, 24*time.Hour-time.Nanosecond, end.Sub(start))
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, timezone.Format(timezone.Now(), time.DateOnly), timezone.Format(today, time.DateOnly))
	assert.Zero(t, today.Hour())
	assert.Zero(t, today.Minute())
}
