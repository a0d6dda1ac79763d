package kiwi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICSEmitter_EmitRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.ics")
	e := NewICSEmitter(path, discardLogger())

	require.NoError(t, e.EmitRecords(context.Background(), seasonA24(t), sampleRecords(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "BEGIN:VEVENT")
	assert.Contains(t, text, "9400 kHz Radio Farda")
	assert.Contains(t, text, "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR")
	assert.Contains(t, text, "UNTIL=20241027T000000Z")
}

func TestFirstOccurrence(t *testing.T) {
	window := seasonA24(t) // starts Sunday 2024-03-31

	t.Run("advances to the first active day", func(t *testing.T) {
		rec := domain.NormalizedRecord{Days: weekdayMask(t, "Mo-Fr"), Begin: "0600", End: "0800"}
		start, end := firstOccurrence(window, rec)

		// First Monday on or after the season start.
		assert.Equal(t, time.Date(2024, time.April, 1, 6, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC), end)
	})

	t.Run("season start day itself counts", func(t *testing.T) {
		rec := domain.NormalizedRecord{Days: weekdayMask(t, "Su"), Begin: "1200", End: "1300"}
		start, _ := firstOccurrence(window, rec)
		assert.Equal(t, time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC), start)
	})

	t.Run("midnight wrap rolls the end into the next day", func(t *testing.T) {
		rec := domain.NormalizedRecord{Days: domain.AllDays, Begin: "2300", End: "0100"}
		start, end := firstOccurrence(window, rec)
		assert.Equal(t, 2*time.Hour, end.Sub(start))
	})
}
