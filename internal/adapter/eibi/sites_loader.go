package eibi

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

// LoadSites reads the three-column transmitter site table
// (country;site;name) into a LocationTable. A missing file or a row with the
// wrong column count is fatal: schedule notes cannot be assembled without a
// structurally valid table.
func LoadSites(path string) (domain.LocationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = 3
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse site table %s: %w", path, err)
	}

	table := domain.LocationTable{}
	for _, row := range rows {
		table.Add(row[0], row[1], row[2])
	}
	return table, nil
}
