// Package kiwi serializes normalized broadcast records into the formats
// understood by KiwiSDR receivers.
package kiwi

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

// CSVEmitter writes the semicolon-separated label file importable by the
// KiwiSDR admin interface.
type CSVEmitter struct {
	path       string
	sortByFreq bool
	logger     *slog.Logger
}

// NewCSVEmitter creates the CSV emitter. With sortByFreq the rows are
// stable-sorted by frequency, which the receiver's import expects; entries
// on the same frequency keep their encounter order.
func NewCSVEmitter(path string, sortByFreq bool, logger *slog.Logger) *CSVEmitter {
	return &CSVEmitter{path: path, sortByFreq: sortByFreq, logger: logger}
}

func (e *CSVEmitter) Name() string { return "kiwi-csv" }

// EmitRecords writes one row per record.
func (e *CSVEmitter) EmitRecords(_ context.Context, _ domain.SeasonWindow, records []domain.NormalizedRecord) error {
	records = maybeSort(records, e.sortByFreq)

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		if _, err := w.WriteString(formatRow(rec) + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", e.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", e.path, err)
	}

	e.logger.Info("kiwi CSV written", "path", e.path, "rows", len(records))
	return nil
}

// formatRow renders the 12-column KiwiSDR label row:
//
//	khz;"mode";"ident";"notes";;"type";;;;"DOW";begin;end
//
// The DOW field is left empty for every-day broadcasts; the receiver treats
// an absent mask as daily.
func formatRow(rec domain.NormalizedRecord) string {
	dow := ""
	if rec.Days != domain.AllDays {
		dow = strconv.Quote(rec.Days.DOWString())
	}
	return FormatFreq(rec.Freq) + ";" +
		strconv.Quote(rec.Mode) + ";" +
		strconv.Quote(rec.Station) + ";" +
		strconv.Quote(rec.Notes) + ";" +
		";" +
		strconv.Quote(rec.Type) + ";" +
		";;;" +
		dow + ";" +
		rec.Begin + ";" +
		rec.End
}

// FormatFreq renders a kHz value without trailing zeros, e.g. "9400" and
// "16.4".
func FormatFreq(khz float64) string {
	return strconv.FormatFloat(khz, 'f', -1, 64)
}

func maybeSort(records []domain.NormalizedRecord, sortByFreq bool) []domain.NormalizedRecord {
	if !sortByFreq {
		return records
	}
	sorted := make([]domain.NormalizedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Freq < sorted[j].Freq
	})
	return sorted
}
