package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
	"github.com/kiwidx/eibi-schedule-etl/internal/observability"
	"github.com/kiwidx/eibi-schedule-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	entries []domain.RawEntry
	err     error
	window  domain.SeasonWindow
}

func (m *mockSource) FetchEntries(_ context.Context, window domain.SeasonWindow) ([]domain.RawEntry, error) {
	m.window = window
	return m.entries, m.err
}

type mockEmitter struct {
	window  domain.SeasonWindow
	emitted []domain.NormalizedRecord
	calls   int
	err     error
}

func (m *mockEmitter) Name() string { return "mock" }

func (m *mockEmitter) EmitRecords(_ context.Context, window domain.SeasonWindow, records []domain.NormalizedRecord) error {
	m.calls++
	m.window = window
	m.emitted = records
	return m.err
}

// --- helpers ---

var refDate = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSites() domain.LocationTable {
	table := domain.LocationTable{}
	table.Add("KWT", "b", "Kabd")
	return table
}

func entry(station, days string) domain.RawEntry {
	return domain.RawEntry{
		Line: station, Freq: 9400, Begin: "0600", End: "0800",
		Days: days, ITU: "KWT", Station: station, Site: "b",
	}
}

func newPipeline(src *mockSource, emitters ...pipeline.RecordEmitter) *pipeline.Pipeline {
	return pipeline.New(src, testSites(), emitters, discardLogger(), observability.NewMetricsForTesting(), refDate)
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	src := &mockSource{entries: []domain.RawEntry{
		entry("Radio One", "Mo-Fr"),
		entry("Radio Two", ""),
	}}
	emt := &mockEmitter{}
	p := newPipeline(src, emt)

	require.NoError(t, p.Run(context.Background()))

	require.Equal(t, 1, emt.calls)
	require.Len(t, emt.emitted, 2)
	assert.Equal(t, "Radio One", emt.emitted[0].Station)
	assert.Equal(t, "Radio Two", emt.emitted[1].Station)
	assert.Equal(t, "A24", emt.window.Label())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_SkipsDoNotAbortTheRun(t *testing.T) {
	oneDay := entry("One Day", "")
	oneDay.ValidFrom, oneDay.ValidTo = "2906", "2906"

	src := &mockSource{entries: []domain.RawEntry{
		entry("Good", "Mo-Fr"),
		oneDay,
		entry("Irregular", "3irr"),
		entry("Also Good", "SaSu"),
	}}
	emt := &mockEmitter{}
	p := newPipeline(src, emt)

	result, err := p.Convert(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Good", result.Records[0].Station)
	assert.Equal(t, "Also Good", result.Records[1].Station)

	require.Len(t, result.Skips, 2)
	assert.Equal(t, domain.SkipOneDay, result.Skips[0].Reason)
	assert.Equal(t, domain.SkipAmbiguousDays, result.Skips[1].Reason)
}

func TestPipeline_FetchFailureIsFatal(t *testing.T) {
	src := &mockSource{err: errors.New("server unreachable")}
	emt := &mockEmitter{}
	p := newPipeline(src, emt)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch schedule sked-a24.csv")
	assert.Zero(t, emt.calls)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_EmitterFailureIsFatal(t *testing.T) {
	src := &mockSource{entries: []domain.RawEntry{entry("Radio One", "")}}
	emt := &mockEmitter{err: errors.New("disk full")}
	p := newPipeline(src, emt)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emit mock")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_AllEmittersReceiveTheSameRecords(t *testing.T) {
	src := &mockSource{entries: []domain.RawEntry{entry("Radio One", "Mo-Fr")}}
	first := &mockEmitter{}
	second := &mockEmitter{}
	p := newPipeline(src, first, second)

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, first.emitted, 1)
	assert.Equal(t, first.emitted, second.emitted)
}

func TestPipeline_SeasonFromReferenceDate(t *testing.T) {
	src := &mockSource{entries: nil}
	p := pipeline.New(src, testSites(), nil, discardLogger(), observability.NewMetricsForTesting(),
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC))

	result, err := p.Convert(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SeasonB, result.Window.Season)
	assert.Equal(t, "sked-b24.csv", src.window.SkedFilename())
}

func TestPipeline_EmptyScheduleStillSucceeds(t *testing.T) {
	src := &mockSource{entries: nil}
	emt := &mockEmitter{}
	p := newPipeline(src, emt)

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 1, emt.calls)
	assert.Empty(t, emt.emitted)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}
