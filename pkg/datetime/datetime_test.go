package datetime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbot/pkg/datetime"
)

func TestParseDate(t *testing.T) {
	day, err := datetime.ParseDate("07.03.2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 7, day.Day())

	_, err = datetime.ParseDate("2025-03-07")
	assert.Error(t, err)

	_, err = datetime.ParseDate("32.01.2025")
	assert.Error(t, err)

	day, err = datetime.ParseDate("  07.03.2025  ")
	require.NoError(t, err)
	assert.Equal(t, 7, day.Day())
}

func TestParseClock(t *testing.T) {
	clock, err := datetime.ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18, clock.Hour())
	assert.Equal(t, 30, clock.Minute())

	_, err = datetime.ParseClock("25:00")
	assert.Error(t, err)

	_, err = datetime.ParseClock("6pm")
	assert.Error(t, err)
}

func TestISOLocalRoundTrip(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	original := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)

	encoded := datetime.FormatISOLocal(original)
	assert.Equal(t, "2025-03-10T18:00:00", encoded)

	decoded, err := datetime.ParseISOLocal(encoded, loc)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestFormatRange(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)
	end := time.Date(2025, 3, 10, 20, 0, 0, 0, loc)

	assert.Equal(t, "10.03.2025 · 18:00", datetime.FormatRange(start, time.Time{}, false))
	assert.Equal(t, "10.03.2025 · 18:00 – 20:00", datetime.FormatRange(start, end, true))
}
