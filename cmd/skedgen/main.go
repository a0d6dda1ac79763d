// Command skedgen writes a small synthetic EiBi schedule file plus a matching
// transmitter site table, then runs the actual interpreter over them so the
// printed stats can be used to update test assertions. The fixture covers the
// notations the converter handles: day ranges, lists, concatenated pairs,
// digit masks, relay remarks, mode hints, one-day entries, and the irregular
// patterns that get skipped.
//
// Usage:
//
//	go run ./cmd/skedgen -out-dir testdata -date 2024-06-15
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kiwidx/eibi-schedule-etl/internal/adapter/eibi"
	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

const header = "kHz:75;Time(UTC):93;Days:59;ITU:49;Station:201;Lng:49;Target:62;Remarks:135;P:35;Start:60;Stop:60\n"

// One line per notation the converter must handle.
var scheduleLines = []string{
	"9400;0600-0800;Mo-Fr;KWT;Radio Farda;E;ME;b;;;",
	"198;0000-2400;;G;BBC Radio 4;E;Eu;dro;;;",
	"6070;1800-1900;SaSu;AUT;Radio DARC;D;Eu;;;;",
	"15770;1400-1500;Mo,We,Fr;USA;WRMI;E;NA;ok;;;",
	"7310;0900-1000;TuTh;D;HCJB;D;Eu;wei;;;",
	"5995;0500-0600;12345;MLI;RTV Malienne;F;WAf;;;;",
	"9830;2100-2200;;USA;WINB;E;Eu;DRM;;;",
	"4840;0200-0300;;USA;WWCR;E;NA;USB;;;",
	"11900;1000-1100;;F;NHK World;J;Eu;/ISS-i;;;",
	"6185;2300-2400;;MEX;Radio Educacion;S;CAm;3irr;;;",
	"7200;0300-0400;;EGY;Radio Cairo;A;NAf;;;1506;1506",
}

// country;site;name rows resolving every site code the schedule uses.
var siteRows = []string{
	"KWT;b;Kabd",
	"G;dro;Droitwich",
	"USA;ok;Okeechobee FL",
	"D;wei;Weenermoor",
	"ISS;i;Issoudun",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write the fixture files into")
	dateStr := flag.String("date", "2024-06-15", "reference date (YYYY-MM-DD) selecting the season")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	ref, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}
	window, err := domain.ActiveSeason(ref.UTC())
	if err != nil {
		return fmt.Errorf("resolve season: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	skedPath := filepath.Join(*outDir, window.SkedFilename())
	if err := writeLines(skedPath, header, scheduleLines); err != nil {
		return fmt.Errorf("writing schedule fixture: %w", err)
	}
	log.Printf("wrote schedule fixture: %s (%d entries)", skedPath, len(scheduleLines))

	sitesPath := filepath.Join(*outDir, "eibisites.csv")
	if err := writeLines(sitesPath, "", siteRows); err != nil {
		return fmt.Errorf("writing site table: %w", err)
	}
	log.Printf("wrote site table: %s (%d rows)", sitesPath, len(siteRows))

	return printStats(skedPath, sitesPath, window)
}

func writeLines(path, head string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if head != "" {
		if _, err := f.WriteString(head); err != nil {
			return err
		}
	}
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// printStats runs the real parser and interpreter over the fixture and prints
// the counts the package tests assert on.
func printStats(skedPath, sitesPath string, window domain.SeasonWindow) error {
	data, err := os.ReadFile(skedPath)
	if err != nil {
		return err
	}
	sites, err := eibi.LoadSites(sitesPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	entries, malformed := eibi.ParseSchedule(data, logger)
	interp := domain.NewInterpreter(window, sites, logger)

	var records []domain.NormalizedRecord
	skipCounts := map[domain.SkipReason]int{}
	for _, e := range entries {
		rec, skip := interp.Interpret(e)
		if skip != nil {
			skipCounts[skip.Reason]++
			continue
		}
		records = append(records, rec)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Season: %s (%s to %s)\n", window.Label(),
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	fmt.Printf("Parsed: %d entries, %d malformed lines\n", len(entries), malformed)
	fmt.Printf("Accepted: %d records\n", len(records))
	for reason, n := range skipCounts {
		fmt.Printf("Skipped (%s): %d\n", reason, n)
	}

	modeCounts := map[string]int{}
	typeCounts := map[string]int{}
	for i := range records {
		modeCounts[records[i].Mode]++
		typeCounts[records[i].Type]++
	}
	fmt.Printf("By mode: QAM=%d, DRM=%d, USB=%d\n",
		modeCounts[domain.ModeQAM], modeCounts[domain.ModeDRM], modeCounts[domain.ModeUSB])
	fmt.Printf("By type: T3=%d, T4=%d\n",
		typeCounts[domain.TypeWithLanguage], typeCounts[domain.TypeWithoutLanguage])

	if len(records) > 0 {
		r := records[0]
		fmt.Printf("\nFirst record:\n")
		fmt.Printf("  Freq: %g kHz, Mode: %s\n", r.Freq, r.Mode)
		fmt.Printf("  Station: %s\n", r.Station)
		fmt.Printf("  Notes: %s\n", r.Notes)
		fmt.Printf("  Days: %s (%d), %s-%s\n", r.Days.DOWString(), r.Days.Int(), r.Begin, r.End)
	}
	return nil
}
