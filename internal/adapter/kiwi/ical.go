package kiwi

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

// byDayCodes maps WeeklyMask bit positions to RRULE BYDAY codes.
var byDayCodes = []string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// ICSEmitter renders the schedule as an iCalendar file of weekly-recurring
// events, one per broadcast window, for calendar-based monitoring.
type ICSEmitter struct {
	path   string
	logger *slog.Logger
}

// NewICSEmitter creates the calendar emitter.
func NewICSEmitter(path string, logger *slog.Logger) *ICSEmitter {
	return &ICSEmitter{path: path, logger: logger}
}

func (e *ICSEmitter) Name() string { return "ics" }

// EmitRecords writes one VEVENT per record, recurring weekly on the active
// days until the season ends.
func (e *ICSEmitter) EmitRecords(_ context.Context, window domain.SeasonWindow, records []domain.NormalizedRecord) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eibi-schedule-etl//EN")

	for i, rec := range records {
		start, end := firstOccurrence(window, rec)

		event := cal.AddEvent(eventUID(i, rec))
		event.SetSummary(fmt.Sprintf("%s kHz %s", FormatFreq(rec.Freq), rec.Station))
		event.SetDescription(rec.Notes)
		event.SetDtStampTime(window.Start)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.AddRrule(weeklyRule(rec.Days, window.End))
	}

	if err := os.WriteFile(e.path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", e.path, err)
	}
	e.logger.Info("calendar written", "path", e.path, "events", len(records))
	return nil
}

// firstOccurrence finds the record's first broadcast on or after the season
// start. An end time before the begin time rolls into the next day.
func firstOccurrence(window domain.SeasonWindow, rec domain.NormalizedRecord) (time.Time, time.Time) {
	day := window.Start
	for i := 0; i < 7; i++ {
		if rec.Days.Contains(weekdayIndex(day)) {
			break
		}
		day = day.AddDate(0, 0, 1)
	}

	start := atHHMM(day, rec.Begin)
	end := atHHMM(day, rec.End)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

func weeklyRule(mask domain.WeeklyMask, until time.Time) string {
	days := make([]string, 0, 7)
	for i, code := range byDayCodes {
		if mask.Contains(i) {
			days = append(days, code)
		}
	}
	return fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s",
		strings.Join(days, ","), until.UTC().Format("20060102T150405Z"))
}

// weekdayIndex converts time.Weekday (Sunday=0) to the Monday-first mask index.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func atHHMM(day time.Time, hhmm string) time.Time {
	n, err := strconv.Atoi(hhmm)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), n/100, n%100, 0, 0, time.UTC)
}

func eventUID(i int, rec domain.NormalizedRecord) string {
	return fmt.Sprintf("%d-%s-%s@eibi-schedule-etl", i, FormatFreq(rec.Freq), rec.Begin)
}
