// Package domain models EiBi shortwave broadcast schedules and their
// conversion into KiwiSDR label records.
//
// # Data Source
//
// Schedules come from the EiBi frequency list (http://www.eibispace.de),
// published twice a year as a semicolon-separated CSV named after the
// broadcast season, e.g. "sked-a25.csv". Columns, in order:
//
//	kHz; Time; Days; ITU; Station; Lng; Target; Remarks; P; Start; Stop
//
// Time is "HHMM-HHMM" in UTC; the end may be numerically before the start for
// windows wrapping past midnight. Start/Stop are optional DDMM dates bounding
// the entry's validity; equal non-empty values mean a single one-day
// broadcast.
//
// # Broadcast seasons
//
// International broadcasters switch schedules twice a year, at the last
// Sunday of March and the last Sunday of October. The March-to-October period
// is season A, the other season B; B spans a year boundary and is named after
// the year it starts in ("B24" runs October 2024 to March 2025). A date
// exactly on a boundary belongs to the season beginning that day.
//
// # Day notation
//
// The Days column is free-form. The forms with an exact weekly meaning are
// a range of two-letter abbreviations ("Mo-Th"), a comma list ("Mo,Th"), a
// concatenation ("SaSu"), the "MF" shorthand, and digit strings where
// 1=Monday .. 7=Sunday ("1345"). Irregular-schedule shorthands such as
// "irr", "2irr", "4u" or "5o" have no fixed weekly pattern; the parser
// rejects them outright instead of guessing. See [ParseDayPattern].
//
// # Transmitter sites
//
// The Remarks column usually carries the transmitter site code. A value like
// "/KWT-b" means the broadcast is relayed from another country: the ITU code
// after the slash replaces the entry's own, and the part after the hyphen is
// the site. Site codes resolve to display names through a separately
// published three-column table (country;site;name); unknown codes degrade to
// the bare country code rather than dropping the entry.
//
// # Output classification
//
// Records with a real language label are tagged T3, the rest T4. Languages
// beginning with "-" are relay annotations, not languages, and count as
// absent. The transmission mode defaults to QAM (pseudo-stereo AM) unless
// the remarks name DRM or USB.
package domain
