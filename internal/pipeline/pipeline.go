package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
	"github.com/kiwidx/eibi-schedule-etl/internal/observability"
)

// EntrySource fetches the raw schedule entries for a season.
type EntrySource interface {
	FetchEntries(ctx context.Context, window domain.SeasonWindow) ([]domain.RawEntry, error)
}

// RecordEmitter writes accepted records to one output destination.
type RecordEmitter interface {
	Name() string
	EmitRecords(ctx context.Context, window domain.SeasonWindow, records []domain.NormalizedRecord) error
}

// Result is the outcome of one conversion pass: accepted records in
// encounter order plus the skip log.
type Result struct {
	Window  domain.SeasonWindow
	Records []domain.NormalizedRecord
	Skips   []domain.Skip
}

// Pipeline orchestrates one season-fetch-interpret-emit pass.
type Pipeline struct {
	source   EntrySource
	sites    domain.LocationResolver
	emitters []RecordEmitter
	logger   *slog.Logger
	metrics  *observability.Metrics

	// refDate overrides "today" for season detection when non-zero,
	// making any calendar date reproducible without touching clocks.
	refDate time.Time

	ready atomic.Bool
}

// New creates a Pipeline.
func New(source EntrySource, sites domain.LocationResolver, emitters []RecordEmitter,
	logger *slog.Logger, metrics *observability.Metrics, refDate time.Time) *Pipeline {
	return &Pipeline{
		source:   source,
		sites:    sites,
		emitters: emitters,
		logger:   logger,
		metrics:  metrics,
		refDate:  refDate,
	}
}

// CheckReadiness returns nil once at least one conversion pass has succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no schedule conversion has completed yet")
	}
	return nil
}

// Convert runs the core of one pass: resolve the active season, fetch the
// raw entries, and interpret each one. Per-entry skips never abort the pass;
// only a missing season anchor or an unfetchable schedule is fatal.
func (p *Pipeline) Convert(ctx context.Context) (Result, error) {
	ref := p.refDate
	if ref.IsZero() {
		ref = clock.Now().UTC()
	}

	window, err := domain.ActiveSeason(ref)
	if err != nil {
		return Result{}, fmt.Errorf("resolve season for %s: %w", ref.Format("2006-01-02"), err)
	}
	p.logger.Info("season resolved",
		"season", window.Label(),
		"start", window.Start.Format("2006-01-02"),
		"end", window.End.Format("2006-01-02"),
	)

	entries, err := p.source.FetchEntries(ctx, window)
	if err != nil {
		return Result{}, fmt.Errorf("fetch schedule %s: %w", window.SkedFilename(), err)
	}
	p.metrics.EntriesRead.Add(float64(len(entries)))

	interp := domain.NewInterpreter(window, p.sites, p.logger)
	result := Result{Window: window, Records: make([]domain.NormalizedRecord, 0, len(entries))}

	for _, entry := range entries {
		rec, skip := interp.Interpret(entry)
		if skip != nil {
			p.metrics.EntriesSkipped.WithLabelValues(string(skip.Reason)).Inc()
			p.logger.Debug("entry skipped", "reason", skip.Reason, "line", skip.Line)
			result.Skips = append(result.Skips, *skip)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// Run performs a full pass and hands the accepted records to every emitter.
func (p *Pipeline) Run(ctx context.Context) error {
	start := clock.Now()

	result, err := p.Convert(ctx)
	if err != nil {
		p.metrics.LastRunSuccess.Set(0)
		return err
	}

	for _, emitter := range p.emitters {
		if err := emitter.EmitRecords(ctx, result.Window, result.Records); err != nil {
			p.metrics.LastRunSuccess.Set(0)
			return fmt.Errorf("emit %s: %w", emitter.Name(), err)
		}
	}

	p.metrics.RecordsEmitted.Add(float64(len(result.Records)))
	p.metrics.ScheduleEntries.Set(float64(len(result.Records)))
	p.metrics.RunDuration.Observe(clock.Since(start).Seconds())
	p.metrics.LastRunSuccess.Set(1)
	p.ready.Store(true)

	p.logger.Info("conversion pass complete",
		"season", result.Window.Label(),
		"records", len(result.Records),
		"skipped", len(result.Skips),
		"duration", clock.Since(start),
	)
	return nil
}
