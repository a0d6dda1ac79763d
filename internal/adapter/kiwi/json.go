package kiwi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

// JSONEmitter writes the line-per-entry JSON variant of the label database,
// used by KiwiSDR frontends that load DX labels over HTTP.
type JSONEmitter struct {
	path       string
	sortByFreq bool
	logger     *slog.Logger
}

// NewJSONEmitter creates the JSON emitter.
func NewJSONEmitter(path string, sortByFreq bool, logger *slog.Logger) *JSONEmitter {
	return &JSONEmitter{path: path, sortByFreq: sortByFreq, logger: logger}
}

func (e *JSONEmitter) Name() string { return "kiwi-json" }

// EmitRecords writes a single JSON object keyed by the season label, holding
// one compact array per record:
//
//	[freq, mode, encoded_station, encoded_notes, {"T3":1,"b0":600,"e0":800,"d0":124}]
//
// "d0" is omitted for every-day broadcasts, matching the CSV emitter's empty
// DOW field.
func (e *JSONEmitter) EmitRecords(_ context.Context, window domain.SeasonWindow, records []domain.NormalizedRecord) error {
	records = maybeSort(records, e.sortByFreq)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "{%q:[\n", "EiBi "+window.Label())
	for i, rec := range records {
		row, err := encodeRow(rec)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.Station, err)
		}
		buf.Write(row)
		if i < len(records)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("]}\n")

	if err := os.WriteFile(e.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", e.path, err)
	}
	e.logger.Info("kiwi JSON written", "path", e.path, "entries", len(records))
	return nil
}

func encodeRow(rec domain.NormalizedRecord) ([]byte, error) {
	meta := map[string]int{rec.Type: 1}
	if begin, err := strconv.Atoi(rec.Begin); err == nil {
		meta["b0"] = begin
	}
	if end, err := strconv.Atoi(rec.End); err == nil {
		meta["e0"] = end
	}
	if rec.Days != domain.AllDays {
		meta["d0"] = rec.Days.Int()
	}

	row := []any{
		math.Round(rec.Freq*100) / 100,
		rec.Mode,
		PercentEncode(rec.Station),
		PercentEncode(rec.Notes),
		meta,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Percent-encoded labels keep "<", ">" and "&" literal.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(row); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PercentEncode escapes a label for the KiwiSDR frontend. Unreserved URL
// characters plus space, colon, angle brackets, comma, parentheses, and
// ampersand stay literal; everything else becomes lowercase %xx escapes.
func PercentEncode(s string) string {
	const literal = " :<>,()&"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(literal, c) >= 0 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02x", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-' || c == '~':
		return true
	}
	return false
}
