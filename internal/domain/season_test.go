package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLastSunday(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected time.Time
	}{
		{2024, time.March, date(2024, time.March, 31)},
		{2024, time.October, date(2024, time.October, 27)},
		{2025, time.March, date(2025, time.March, 30)},
		{2025, time.October, date(2025, time.October, 26)},
		{2026, time.March, date(2026, time.March, 29)},
	}

	for _, tt := range tests {
		got := LastSunday(tt.year, tt.month)
		assert.Equal(t, tt.expected, got)
		assert.Equal(t, time.Sunday, got.Weekday())
	}
}

func TestActiveSeason(t *testing.T) {
	t.Run("mid-summer is season A", func(t *testing.T) {
		w, err := ActiveSeason(date(2024, time.June, 15))
		require.NoError(t, err)

		assert.Equal(t, SeasonA, w.Season)
		assert.Equal(t, date(2024, time.March, 31), w.Start)
		assert.Equal(t, date(2024, time.October, 27), w.End)
	})

	t.Run("early November is season B", func(t *testing.T) {
		w, err := ActiveSeason(date(2024, time.November, 1))
		require.NoError(t, err)

		assert.Equal(t, SeasonB, w.Season)
		assert.Equal(t, date(2024, time.October, 27), w.Start)
		assert.Equal(t, date(2025, time.March, 30), w.End)
	})

	t.Run("january belongs to previous year's B season", func(t *testing.T) {
		w, err := ActiveSeason(date(2025, time.January, 15))
		require.NoError(t, err)

		assert.Equal(t, SeasonB, w.Season)
		assert.Equal(t, date(2024, time.October, 27), w.Start)
		assert.Equal(t, "B24", w.Label())
		assert.Equal(t, "sked-b24.csv", w.SkedFilename())
	})

	t.Run("boundary day starts the new season", func(t *testing.T) {
		w, err := ActiveSeason(date(2024, time.October, 27))
		require.NoError(t, err)
		assert.Equal(t, SeasonB, w.Season)

		w, err = ActiveSeason(date(2024, time.March, 31))
		require.NoError(t, err)
		assert.Equal(t, SeasonA, w.Season)
	})

	t.Run("day before a boundary closes the old season", func(t *testing.T) {
		w, err := ActiveSeason(date(2024, time.October, 26))
		require.NoError(t, err)
		assert.Equal(t, SeasonA, w.Season)
	})

	t.Run("time of day is irrelevant", func(t *testing.T) {
		w, err := ActiveSeason(time.Date(2024, time.October, 27, 23, 59, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, SeasonB, w.Season)
	})

	t.Run("idempotent", func(t *testing.T) {
		ref := date(2024, time.June, 15)
		first, err := ActiveSeason(ref)
		require.NoError(t, err)
		second, err := ActiveSeason(ref)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("zero date is invalid", func(t *testing.T) {
		_, err := ActiveSeason(time.Time{})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestSeasonWindow_Contains(t *testing.T) {
	w, err := ActiveSeason(date(2024, time.June, 15))
	require.NoError(t, err)

	assert.True(t, w.Contains(date(2024, time.March, 31)))  // start inclusive
	assert.True(t, w.Contains(date(2024, time.July, 1)))
	assert.False(t, w.Contains(date(2024, time.October, 27))) // end exclusive
	assert.False(t, w.Contains(date(2024, time.December, 1)))
}

func TestSeasonWindow_Label(t *testing.T) {
	a, err := ActiveSeason(date(2025, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, "A25", a.Label())
	assert.Equal(t, "sked-a25.csv", a.SkedFilename())

	b, err := ActiveSeason(date(2025, time.December, 1))
	require.NoError(t, err)
	assert.Equal(t, "B25", b.Label())
	assert.Equal(t, "sked-b25.csv", b.SkedFilename())
}
