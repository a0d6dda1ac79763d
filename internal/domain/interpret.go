package domain

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Interpreter converts raw schedule entries into normalized records,
// applying the filtering policy for the active season. It holds no mutable
// state: entries are independent and skips never affect later entries.
type Interpreter struct {
	window SeasonWindow
	sites  LocationResolver
	logger *slog.Logger
}

// NewInterpreter creates an interpreter for one schedule run.
func NewInterpreter(window SeasonWindow, sites LocationResolver, logger *slog.Logger) *Interpreter {
	return &Interpreter{window: window, sites: sites, logger: logger}
}

// Interpret produces a NormalizedRecord for the entry, or a non-nil Skip
// explaining why the entry is excluded. Skips are expected and frequent;
// they are decisions, not errors.
func (it *Interpreter) Interpret(e RawEntry) (NormalizedRecord, *Skip) {
	// One-day broadcasts have no weekly recurrence to represent.
	if e.OneDay() {
		return NormalizedRecord{}, &Skip{Reason: SkipOneDay, Line: e.Line}
	}

	mask, ok := ParseDayPattern(e.Days)
	if !ok {
		return NormalizedRecord{}, &Skip{Reason: SkipAmbiguousDays, Line: e.Line}
	}

	inSeason, ok := it.validInSeason(e)
	if !ok {
		return NormalizedRecord{}, &Skip{Reason: SkipMalformed, Line: e.Line}
	}
	if !inSeason {
		return NormalizedRecord{}, &Skip{Reason: SkipOutOfSeason, Line: e.Line}
	}

	return NormalizedRecord{
		Freq:    e.Freq,
		Mode:    resolveMode(e.Mode),
		Station: e.Station,
		Notes:   it.buildNotes(e),
		Type:    classifyLanguage(e.Language),
		Days:    mask,
		Begin:   e.Begin,
		End:     e.End,
	}, nil
}

// validInSeason checks the entry's optional validity dates against the active
// season window. Entries without dates are always in season. The second
// return value is false when a date is malformed.
func (it *Interpreter) validInSeason(e RawEntry) (inSeason, ok bool) {
	if e.ValidFrom == "" && e.ValidTo == "" {
		return true, true
	}
	for _, ddmm := range []string{e.ValidFrom, e.ValidTo} {
		if ddmm == "" {
			continue
		}
		d, err := it.placeInWindow(ddmm)
		if err != nil {
			return false, false
		}
		if it.window.Contains(d) {
			return true, true
		}
	}
	return false, true
}

// placeInWindow resolves a DDMM date to a concrete day, trying the years the
// window spans (B seasons cross a year boundary).
func (it *Interpreter) placeInWindow(ddmm string) (time.Time, error) {
	if len(ddmm) != 4 {
		return time.Time{}, strconv.ErrSyntax
	}
	day, err := strconv.Atoi(ddmm[:2])
	if err != nil {
		return time.Time{}, err
	}
	month, err := strconv.Atoi(ddmm[2:])
	if err != nil {
		return time.Time{}, err
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, strconv.ErrRange
	}

	d := time.Date(it.window.Start.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !it.window.Contains(d) && it.window.End.Year() != it.window.Start.Year() {
		d = time.Date(it.window.End.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return d, nil
}

// buildNotes joins location, target area, and language into the display
// notes, omitting empty components. An unknown site code degrades to the
// bare country code; the entry is still accepted.
func (it *Interpreter) buildNotes(e RawEntry) string {
	head := e.ITU
	if e.Site != "" {
		name, err := it.sites.Resolve(e.ITU, e.Site)
		if err != nil {
			it.logger.Debug("unknown transmitter site",
				"country", e.ITU, "site", e.Site, "station", e.Station)
		} else if name != "" {
			head = e.ITU + " " + strings.TrimSpace(name)
		}
	}

	parts := []string{head + "."}
	if t := strings.TrimSpace(e.Target); t != "" {
		parts = append(parts, "Target: "+t+".")
	}
	if l := strings.TrimSpace(e.Language); l != "" {
		parts = append(parts, "Lang: "+l)
	}
	return strings.Join(parts, " ")
}

// classifyLanguage tags records carrying a real language label as T3.
// Empty languages and "-" markers (relay annotations, not languages) are T4.
func classifyLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.HasPrefix(lang, "-") {
		return TypeWithoutLanguage
	}
	return TypeWithLanguage
}
