package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate reports a reference date the season calculator cannot anchor
// a schedule run to. This is fatal for the run.
var ErrInvalidDate = errors.New("invalid reference date")

// Season identifies one of the two international broadcast scheduling periods.
type Season string

const (
	SeasonA Season = "A"
	SeasonB Season = "B"
)

// SeasonWindow is a season together with its concrete date range.
// Start is inclusive, End exclusive: a date exactly on a boundary belongs to
// the season that begins that day.
type SeasonWindow struct {
	Season Season
	Start  time.Time
	End    time.Time
}

// LastSunday returns the last Sunday of the given month, at midnight UTC.
func LastSunday(year int, month time.Month) time.Time {
	// Day 0 of the next month is the last day of this month.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return last.AddDate(0, 0, -int(last.Weekday()))
}

// ActiveSeason resolves the broadcast season containing ref.
// Season A runs from the last Sunday of March to the last Sunday of October;
// Season B from the last Sunday of October to the last Sunday of March of the
// following year.
func ActiveSeason(ref time.Time) (SeasonWindow, error) {
	if ref.IsZero() {
		return SeasonWindow{}, ErrInvalidDate
	}
	ref = truncateToDay(ref)
	year := ref.Year()

	aStart := LastSunday(year, time.March)
	aEnd := LastSunday(year, time.October)

	switch {
	case ref.Before(aStart):
		// Still in the B season that started the previous October.
		return SeasonWindow{Season: SeasonB, Start: LastSunday(year-1, time.October), End: aStart}, nil
	case ref.Before(aEnd):
		return SeasonWindow{Season: SeasonA, Start: aStart, End: aEnd}, nil
	default:
		return SeasonWindow{Season: SeasonB, Start: aEnd, End: LastSunday(year+1, time.March)}, nil
	}
}

// Label returns the short season name used by EiBi, e.g. "A25" or "B24".
func (w SeasonWindow) Label() string {
	return fmt.Sprintf("%s%02d", w.Season, w.Start.Year()%100)
}

// SkedFilename returns the name of the EiBi CSV file published for this
// season, e.g. "sked-a25.csv".
func (w SeasonWindow) SkedFilename() string {
	return fmt.Sprintf("sked-%s.csv", strings.ToLower(w.Label()))
}

// Contains reports whether d falls inside the window.
func (w SeasonWindow) Contains(d time.Time) bool {
	d = truncateToDay(d)
	return !d.Before(w.Start) && d.Before(w.End)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
