package eligibility

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Report is the complete output of one analysis run.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	LeagueID    string      `json:"league_id"`
	Violations  []Violation `json:"violations"`
	Diagnostics []string    `json:"diagnostics"`
	// Warnings carries non-fatal fetch problems (truncated stat pages).
	Warnings []string `json:"warnings,omitempty"`

	PitcherViolations int `json:"pitcher_violations"`
	BatterViolations  int `json:"batter_violations"`
}

// CSVFileName builds a timestamped download name for the report.
func (r *Report) CSVFileName() string {
	return fmt.Sprintf("ineligible_minors_%s.csv", r.GeneratedAt.Format("20060102_150405"))
}

// WriteCSV emits the violation table as delimited text.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Player", "Position", "Team", "Current_Total", "Threshold"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, v := range r.Violations {
		record := []string{
			v.Player,
			v.Position,
			v.Team,
			strconv.FormatFloat(v.CurrentTotal, 'f', 1, 64),
			v.Threshold,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %s: %w", v.Player, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
