// Package idmap loads the Player ID Key file that joins Fantrax roster
// ids to FanGraphs player ids.
package idmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names in the Player ID Key file. The Fantrax id column appears
// under either its canonical or its legacy header depending on which
// export produced the file.
const (
	ColFantraxID       = "Fantrax_ID"
	ColFantraxIDLegacy = "FANTRAXID"
	ColName            = "FANTRAXNAME"
	ColFanGraphsID     = "IDFANGRAPHS"
)

// missingMarkers are the textual forms an absent FanGraphs id takes in the
// wild. All normalize to the empty string at load time so downstream code
// has a single is-missing test.
var missingMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"NaN":  true,
	"NULL": true,
	"null": true,
}

// Row is one identity mapping entry.
type Row struct {
	FantraxID   string
	Name        string
	FanGraphsID string // normalized: empty means no id on file
}

// Table is the mapping file indexed by Fantrax id.
type Table struct {
	rows       map[string]Row
	missingIDs int
}

// Load reads the mapping file at path. Any failure here is fatal to an
// analysis run.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file: %w", err)
	}
	defer f.Close()

	table, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("loading mapping file %s: %w", path, err)
	}
	return table, nil
}

// LoadReader parses mapping CSV content.
func LoadReader(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idIdx, nameIdx, fgIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case ColFantraxID, ColFantraxIDLegacy:
			idIdx = i
		case ColName:
			nameIdx = i
		case ColFanGraphsID:
			fgIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("missing column %s (or %s)", ColFantraxID, ColFantraxIDLegacy)
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("missing column %s", ColName)
	}
	if fgIdx < 0 {
		return nil, fmt.Errorf("missing column %s", ColFanGraphsID)
	}

	table := &Table{rows: make(map[string]Row)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		fantraxID := strings.TrimSpace(rec[idIdx])
		if fantraxID == "" {
			continue
		}
		// Fantrax_ID is the unique key; keep the first occurrence if an
		// export ever carries duplicates.
		if _, exists := table.rows[fantraxID]; exists {
			continue
		}

		table.rows[fantraxID] = Row{
			FantraxID:   fantraxID,
			Name:        strings.TrimSpace(rec[nameIdx]),
			FanGraphsID: normalizeID(rec[fgIdx]),
		}
	}

	for _, row := range table.rows {
		if row.FanGraphsID == "" {
			table.missingIDs++
		}
	}

	return table, nil
}

// normalizeID collapses every known missing-value marker to "".
// Non-integer values (e.g. "N/A" or a minor-league id) pass through
// untouched: they are a meaningful no-MLB-history signal, not missing data.
func normalizeID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if missingMarkers[trimmed] {
		return ""
	}
	return trimmed
}

// Lookup finds the mapping row for a Fantrax id by exact match.
func (t *Table) Lookup(fantraxID string) (Row, bool) {
	row, ok := t.rows[fantraxID]
	return row, ok
}

// Len reports how many mapping rows loaded.
func (t *Table) Len() int {
	return len(t.rows)
}

// MissingIDs reports how many rows loaded without a FanGraphs id.
func (t *Table) MissingIDs() int {
	return t.missingIDs
}
