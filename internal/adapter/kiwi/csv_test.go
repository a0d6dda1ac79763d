package kiwi

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seasonA24(t *testing.T) domain.SeasonWindow {
	t.Helper()
	w, err := domain.ActiveSeason(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return w
}

func weekdayMask(t *testing.T, token string) domain.WeeklyMask {
	t.Helper()
	mask, ok := domain.ParseDayPattern(token)
	require.True(t, ok)
	return mask
}

func sampleRecords(t *testing.T) []domain.NormalizedRecord {
	t.Helper()
	return []domain.NormalizedRecord{
		{
			Freq: 9400, Mode: domain.ModeQAM, Station: "Radio Farda",
			Notes: "KWT Kabd. Target: ME. Lang: English", Type: domain.TypeWithLanguage,
			Days: weekdayMask(t, "Mo-Fr"), Begin: "0600", End: "0800",
		},
		{
			Freq: 198, Mode: domain.ModeQAM, Station: "BBC Radio 4",
			Notes: "G Droitwich.", Type: domain.TypeWithoutLanguage,
			Days: domain.AllDays, Begin: "0001", End: "2359",
		},
	}
}

func TestCSVEmitter_EmitRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiwi.csv")
	e := NewCSVEmitter(path, false, discardLogger())

	require.NoError(t, e.EmitRecords(context.Background(), seasonA24(t), sampleRecords(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	// Encounter order preserved when sorting is off.
	assert.Equal(t, `9400;"QAM";"Radio Farda";"KWT Kabd. Target: ME. Lang: English";;"T3";;;;"MTWTF__";0600;0800`, lines[0])
	// Every-day broadcasts leave the DOW field empty.
	assert.Equal(t, `198;"QAM";"BBC Radio 4";"G Droitwich.";;"T4";;;;;0001;2359`, lines[1])
}

func TestCSVEmitter_SortsByFrequency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiwi.csv")
	e := NewCSVEmitter(path, true, discardLogger())

	require.NoError(t, e.EmitRecords(context.Background(), seasonA24(t), sampleRecords(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "198;"))
	assert.True(t, strings.HasPrefix(lines[1], "9400;"))
}

func TestCSVEmitter_SortIsStable(t *testing.T) {
	records := []domain.NormalizedRecord{
		{Freq: 6070, Station: "first", Days: domain.AllDays, Begin: "0600", End: "0700", Mode: domain.ModeQAM, Type: domain.TypeWithoutLanguage},
		{Freq: 6070, Station: "second", Days: domain.AllDays, Begin: "0700", End: "0800", Mode: domain.ModeQAM, Type: domain.TypeWithoutLanguage},
	}
	path := filepath.Join(t.TempDir(), "kiwi.csv")
	e := NewCSVEmitter(path, true, discardLogger())

	require.NoError(t, e.EmitRecords(context.Background(), seasonA24(t), records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	first := strings.Index(string(data), "first")
	second := strings.Index(string(data), "second")
	assert.Less(t, first, second)
}

func TestFormatFreq(t *testing.T) {
	assert.Equal(t, "9400", FormatFreq(9400))
	assert.Equal(t, "16.4", FormatFreq(16.4))
	assert.Equal(t, "198", FormatFreq(198.0))
	assert.Equal(t, "15049.6", FormatFreq(15049.6))
}
