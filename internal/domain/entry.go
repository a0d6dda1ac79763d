package domain

// RawEntry is one schedule line as parsed from the EiBi CSV source,
// before interpretation.
type RawEntry struct {
	// Line is the original source line, kept for the skip log.
	Line string

	Freq     float64 // kHz
	Begin    string  // HHMM, UTC
	End      string  // HHMM, UTC; may be numerically before Begin (wraps past midnight)
	Days     string  // free-form day notation, empty means every day
	ITU      string  // ITU country code of the transmitter
	Station  string
	Language string // may be empty, or start with "-" for non-language markers
	Target   string // target area, may be empty
	Site     string // transmitter site code within the ITU country, may be empty
	Mode     string // transmission mode hint from remarks ("DRM", "USB"), empty when absent

	// ValidFrom/ValidTo are optional DDMM dates bounding the entry's validity
	// within the season. Equal non-empty values mark a one-day broadcast.
	ValidFrom string
	ValidTo   string
}

// OneDay reports whether the entry is a single-occurrence broadcast rather
// than a recurring weekly schedule.
func (e RawEntry) OneDay() bool {
	return e.ValidFrom != "" && e.ValidFrom == e.ValidTo
}

// SkipReason classifies why an entry was excluded from the output.
type SkipReason string

const (
	SkipOneDay        SkipReason = "one-day entry"
	SkipAmbiguousDays SkipReason = "ambiguous day pattern"
	SkipOutOfSeason   SkipReason = "out of season"
	SkipMalformed     SkipReason = "malformed entry"
)

// Skip records one excluded entry for the skip log.
type Skip struct {
	Reason SkipReason
	Line   string
}
