// Command validate performs integrity checks on a generated KiwiSDR label
// file: row structure, field formats, and frequency ordering. It is meant to
// be run against kiwi.csv before importing it into a receiver.
//
// Usage:
//
//	go run ./cmd/validate -csv kiwi.csv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Column positions in the 12-column label row:
//
//	khz;"mode";"ident";"notes";;"type";;;;"DOW";begin;end
const (
	colFreq  = 0
	colMode  = 1
	colIdent = 2
	colNotes = 3
	colType  = 5
	colDOW   = 9
	colBegin = 10
	colEnd   = 11

	rowColumns = 12
)

var (
	validModes = map[string]bool{"QAM": true, "DRM": true, "USB": true}
	validTypes = map[string]bool{"T3": true, "T4": true}
)

// dowPattern gives the letter expected at each position of a day-of-week
// mask; an underscore marks an inactive day.
const dowPattern = "MTWTFSS"

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the generated KiwiSDR label CSV")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	fmt.Println("=== KiwiSDR Label File Validation ===")
	fmt.Println()

	rows, err := loadRows(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load label file: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateStructure(rows),
		validateFields(rows),
		validateOrdering(rows),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// row is a raw label line split into its semicolon-separated fields.
type row struct {
	lineNum int
	fields  []string
}

func loadRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []row
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, row{lineNum: lineNum, fields: strings.Split(line, ";")})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows in %s", path)
	}
	return rows, nil
}

// ── Phase 1: Structure ──
// Every row must have exactly twelve semicolon-separated fields, with the
// quoted fields actually quoted.

func validateStructure(rows []row) *phase {
	p := &phase{name: "Phase 1: Row Structure"}

	for _, r := range rows {
		if len(r.fields) != rowColumns {
			p.errorf("line %d: %d columns (want %d)", r.lineNum, len(r.fields), rowColumns)
			continue
		}
		for _, col := range []int{colMode, colIdent, colNotes, colType} {
			if !isQuoted(r.fields[col]) {
				p.errorf("line %d: column %d is not quoted: %s", r.lineNum, col, r.fields[col])
			}
		}
		if dow := r.fields[colDOW]; dow != "" && !isQuoted(dow) {
			p.errorf("line %d: DOW field is not quoted: %s", r.lineNum, dow)
		}
	}
	return p
}

// ── Phase 2: Field Formats ──

func validateFields(rows []row) *phase {
	p := &phase{name: "Phase 2: Field Formats"}

	for _, r := range rows {
		if len(r.fields) != rowColumns {
			continue
		}
		checkFreq(p, r)
		checkEnums(p, r)
		checkDOW(p, r)
		checkTimes(p, r)
	}
	return p
}

func checkFreq(p *phase, r row) {
	freq, err := strconv.ParseFloat(r.fields[colFreq], 64)
	if err != nil {
		p.errorf("line %d: unparseable frequency %q", r.lineNum, r.fields[colFreq])
	} else if freq <= 0 {
		p.errorf("line %d: non-positive frequency %g", r.lineNum, freq)
	}
}

func checkEnums(p *phase, r row) {
	if mode, err := strconv.Unquote(r.fields[colMode]); err != nil || !validModes[mode] {
		p.errorf("line %d: mode %s not in {QAM, DRM, USB}", r.lineNum, r.fields[colMode])
	}
	if typ, err := strconv.Unquote(r.fields[colType]); err != nil || !validTypes[typ] {
		p.errorf("line %d: type %s not in {T3, T4}", r.lineNum, r.fields[colType])
	}
	if ident, err := strconv.Unquote(r.fields[colIdent]); err != nil || ident == "" {
		p.errorf("line %d: empty or malformed ident %s", r.lineNum, r.fields[colIdent])
	}
}

func checkDOW(p *phase, r row) {
	raw := r.fields[colDOW]
	if raw == "" {
		return
	}
	dow, err := strconv.Unquote(raw)
	if err != nil || len(dow) != len(dowPattern) {
		p.errorf("line %d: malformed DOW mask %s", r.lineNum, raw)
		return
	}
	active := 0
	for i := range dow {
		switch dow[i] {
		case dowPattern[i]:
			active++
		case '_':
		default:
			p.errorf("line %d: DOW mask %q has %q at position %d (want %q or '_')",
				r.lineNum, dow, dow[i], i, dowPattern[i])
		}
	}
	if active == len(dowPattern) {
		p.errorf("line %d: DOW mask %q covers every day (field should be empty)", r.lineNum, dow)
	}
	if active == 0 {
		p.errorf("line %d: DOW mask %q has no active days", r.lineNum, dow)
	}
}

func checkTimes(p *phase, r row) {
	for _, col := range []int{colBegin, colEnd} {
		v := r.fields[col]
		if !validHHMM(v) {
			p.errorf("line %d: invalid time %q in column %d", r.lineNum, v, col)
		}
	}
	if r.fields[colBegin] == "0000" || r.fields[colEnd] == "2400" {
		p.errorf("line %d: unclamped day-boundary time %s-%s",
			r.lineNum, r.fields[colBegin], r.fields[colEnd])
	}
}

// ── Phase 3: Ordering ──
// Frequencies must be nondecreasing when the emitter ran with sorting on.

func validateOrdering(rows []row) *phase {
	p := &phase{name: "Phase 3: Frequency Ordering"}

	prev := -1.0
	for _, r := range rows {
		if len(r.fields) != rowColumns {
			continue
		}
		freq, err := strconv.ParseFloat(r.fields[colFreq], 64)
		if err != nil {
			continue
		}
		if freq < prev {
			p.errorf("line %d: frequency %g is below the previous row's %g", r.lineNum, freq, prev)
		}
		prev = freq
	}
	return p
}

// ── Helpers ──

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func validHHMM(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n/100 <= 24 && n%100 <= 59
}
