package eibi

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

// Column positions in the EiBi CSV format.
// kHz; Time; Days; ITU; Station; Lng; Target; Remarks; P; Start; Stop
const (
	colFreq = iota
	colTime
	colDays
	colITU
	colStation
	colLanguage
	colTarget
	colRemarks
	colPower
	colStart
	colStop

	minColumns = colRemarks + 1
)

// ParseSchedule converts the raw schedule file into entries. The header line
// is skipped; lines that cannot be parsed are counted as malformed and
// dropped without affecting the rest of the file.
func ParseSchedule(data []byte, logger *slog.Logger) ([]domain.RawEntry, int) {
	lines := splitLines(data)
	if len(lines) > 0 {
		lines = lines[1:] // header
	}

	entries := make([]domain.RawEntry, 0, len(lines))
	malformed := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, ok := parseLine(line)
		if !ok {
			malformed++
			logger.Debug("malformed schedule line", "line", line)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, malformed
}

// splitLines handles the mix of line endings seen in EiBi files, which have
// shipped with CRLF and with bare CR.
func splitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func parseLine(line string) (domain.RawEntry, bool) {
	fields := strings.Split(line, ";")
	if len(fields) < minColumns {
		return domain.RawEntry{}, false
	}

	freq, err := strconv.ParseFloat(strings.TrimSpace(fields[colFreq]), 64)
	if err != nil || freq <= 0 {
		return domain.RawEntry{}, false
	}

	begin, end, ok := parseTimeWindow(fields[colTime])
	if !ok {
		return domain.RawEntry{}, false
	}

	entry := domain.RawEntry{
		Line:     line,
		Freq:     freq,
		Begin:    begin,
		End:      end,
		Days:     strings.TrimSpace(fields[colDays]),
		ITU:      strings.TrimSpace(fields[colITU]),
		Station:  strings.TrimSpace(fields[colStation]),
		Language: strings.TrimSpace(fields[colLanguage]),
		Target:   strings.TrimSpace(fields[colTarget]),
	}
	applyRemarks(&entry, strings.TrimSpace(fields[colRemarks]))

	if len(fields) > colStop {
		entry.ValidFrom = strings.TrimSpace(fields[colStart])
		entry.ValidTo = strings.TrimSpace(fields[colStop])
	}
	return entry, true
}

// parseTimeWindow splits "0600-0800" into validated HHMM endpoints.
// "0000" and "2400" are clamped to "0001" and "2359": receivers treat the
// exact day boundary values specially.
func parseTimeWindow(field string) (begin, end string, ok bool) {
	begin, end, found := strings.Cut(strings.TrimSpace(field), "-")
	if !found || !validHHMM(begin) || !validHHMM(end) {
		return "", "", false
	}
	if begin == "0000" {
		begin = "0001"
	}
	if end == "2400" {
		end = "2359"
	}
	return begin, end, true
}

func validHHMM(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	hour, min := n/100, n%100
	return hour <= 24 && min <= 59
}

// applyRemarks interprets the remarks column. A "/XXX-site" value marks a
// relay: the ITU code after the slash replaces the entry's own and the part
// after the hyphen is the transmitter site. A bare "DRM" or "USB" remark is
// a transmission-mode hint; anything else is the site code itself.
func applyRemarks(entry *domain.RawEntry, remarks string) {
	switch remarks {
	case "":
		return
	case domain.ModeDRM, domain.ModeUSB:
		entry.Mode = remarks
		return
	}

	if strings.HasPrefix(remarks, "/") {
		country, site, _ := strings.Cut(remarks[1:], "-")
		if country != "" {
			entry.ITU = country
		}
		entry.Site = site
		return
	}
	entry.Site = remarks
}
