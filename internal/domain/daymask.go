package domain

import (
	"math/bits"
	"regexp"
	"strings"
)

// WeeklyMask is a 7-bit day-of-week mask, Monday first. Monday occupies the
// most significant of the seven bits so the integer value matches the "d0"
// day encoding used by KiwiSDR label metadata (e.g. Mo-Fr = 0b1111100 = 124).
type WeeklyMask uint8

// AllDays has every weekday bit set.
const AllDays WeeklyMask = 0x7f

// weekdayAbbrevs lists the schedule's two-letter day abbreviations in mask
// bit order.
var weekdayAbbrevs = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// ambiguousDayRe matches the irregular-schedule shorthands found in EiBi day
// columns: "irr", "2irr", "4u" (irregular use), "5o" (odd weeks) and similar.
// These denote patterns that cannot be expressed as a fixed weekly mask.
var ambiguousDayRe = regexp.MustCompile(`^\d{0,2}(irr|u|o)$`)

// dayAliases maps shorthand tokens to explicit day sets.
var dayAliases = map[string]WeeklyMask{
	"MF":   maskOf(0, 1, 2, 3, 4), // Monday through Friday
	"SaSu": maskOf(5, 6),
}

func maskOf(days ...int) WeeklyMask {
	var m WeeklyMask
	for _, d := range days {
		m |= 1 << (6 - d)
	}
	return m
}

// Contains reports whether the weekday at index i (0 = Monday) is active.
func (m WeeklyMask) Contains(i int) bool {
	return m&(1<<(6-i)) != 0
}

// Count returns the number of active days.
func (m WeeklyMask) Count() int {
	return bits.OnesCount8(uint8(m))
}

// Int returns the mask as an integer with Monday as the high bit, the
// encoding expected by the KiwiSDR JSON "d0" field.
func (m WeeklyMask) Int() int {
	return int(m)
}

// DOWString renders the mask as a 7-character "MTWTF__"-style string,
// Monday first, with "_" marking inactive days.
func (m WeeklyMask) DOWString() string {
	initials := [7]byte{'M', 'T', 'W', 'T', 'F', 'S', 'S'}
	var b strings.Builder
	for i := 0; i < 7; i++ {
		if m.Contains(i) {
			b.WriteByte(initials[i])
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ParseDayPattern converts an EiBi day-column token into a WeeklyMask.
// The grammar is closed: a token either parses completely or the second
// return value is false, never a partial or guessed mask.
//
// Recognized forms, in precedence order:
//
//	""            every day
//	"MF", "SaSu"  alias table
//	"Mo-Th"       inclusive range (non-wrapping; "Sa-Tu" is rejected)
//	"Mo,Th"       comma-separated day list
//	"SaSu"        concatenated two-letter days
//	"1345"        digit string, 1=Monday .. 7=Sunday, digits distinct
//
// Irregular-schedule shorthands ("irr", "2irr", "4u", "5o", ...) are always
// rejected: they name broadcasts with no fixed weekly pattern.
func ParseDayPattern(token string) (WeeklyMask, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AllDays, true
	}
	if m, ok := dayAliases[token]; ok {
		return m, true
	}
	if ambiguousDayRe.MatchString(token) {
		return 0, false
	}

	if from, to, ok := strings.Cut(token, "-"); ok {
		return parseDayRange(from, to)
	}
	if strings.Contains(token, ",") {
		return parseDayList(strings.Split(token, ","))
	}
	if isDigits(token) {
		return parseDayNumbers(token)
	}
	return parseConcatenated(token)
}

// parseDayRange expands "Mo"-"Th" to the inclusive run of days between the
// endpoints. Ranges never wrap past Sunday; a start after the end is rejected
// rather than guessed.
func parseDayRange(from, to string) (WeeklyMask, bool) {
	start, ok := dayIndex(from)
	if !ok {
		return 0, false
	}
	end, ok := dayIndex(to)
	if !ok || start > end {
		return 0, false
	}
	var m WeeklyMask
	for i := start; i <= end; i++ {
		m |= 1 << (6 - i)
	}
	return m, true
}

func parseDayList(days []string) (WeeklyMask, bool) {
	var m WeeklyMask
	for _, d := range days {
		i, ok := dayIndex(d)
		if !ok {
			return 0, false
		}
		m |= 1 << (6 - i)
	}
	return m, true
}

// parseConcatenated reads a run of two-letter day abbreviations with no
// separator, e.g. "MoTuFr".
func parseConcatenated(token string) (WeeklyMask, bool) {
	if len(token) == 0 || len(token)%2 != 0 {
		return 0, false
	}
	var m WeeklyMask
	for p := 0; p < len(token); p += 2 {
		i, ok := dayIndex(token[p : p+2])
		if !ok {
			return 0, false
		}
		m |= 1 << (6 - i)
	}
	return m, true
}

// parseDayNumbers reads a digit string where 1=Monday .. 7=Sunday.
// Out-of-range or repeated digits are rejected.
func parseDayNumbers(token string) (WeeklyMask, bool) {
	var m WeeklyMask
	for _, c := range token {
		if c < '1' || c > '7' {
			return 0, false
		}
		bit := WeeklyMask(1) << (6 - (c - '1'))
		if m&bit != 0 {
			return 0, false
		}
		m |= bit
	}
	return m, true
}

func dayIndex(abbrev string) (int, bool) {
	for i, d := range weekdayAbbrevs {
		if d == abbrev {
			return i, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
