// Package eligibility joins roster snapshots, the identity mapping and
// career stat indexes to flag players mis-slotted in the minors.
package eligibility

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fortuna/farmcheck/internal/idmap"
	"github.com/fortuna/farmcheck/internal/ingest/fangraphs"
	"github.com/fortuna/farmcheck/internal/ingest/fantrax"
)

// Violation is one minors-slot player whose career usage exceeds the
// threshold for their role.
type Violation struct {
	Player       string  `json:"player"`
	Position     string  `json:"position"`
	Team         string  `json:"team"`
	CurrentTotal float64 `json:"current_total"` // rounded to one decimal
	Threshold    string  `json:"threshold"`
}

// Metrics tracks what the last reconcile walked over.
type Metrics struct {
	EntriesScanned    int
	MinorsChecked     int
	PitcherViolations int
	BatterViolations  int
	LastReconcile     time.Time
}

// Engine runs the reconciliation fold. It holds no state beyond metrics;
// Reconcile itself is pure over its inputs.
type Engine struct {
	metrics *Metrics
}

// NewEngine creates a reconciliation engine.
func NewEngine() *Engine {
	return &Engine{metrics: &Metrics{}}
}

// Reconcile walks every roster entry in snapshot order (teams as received,
// then entries as received) and returns the minors-slot violations in that
// order plus a sorted, de-duplicated diagnostic list. Identical inputs
// always produce identical output.
func (e *Engine) Reconcile(snapshot *fantrax.RosterSnapshot, mapping *idmap.Table, batting, pitching fangraphs.CareerIndex) ([]Violation, []string) {
	e.metrics = &Metrics{LastReconcile: time.Now()}

	violations := []Violation{}
	diagnostics := make(map[string]struct{})

	for _, team := range snapshot.Teams {
		for _, entry := range team.RosterItems {
			e.metrics.EntriesScanned++

			if entry.Status != MinorsStatus {
				continue
			}
			e.metrics.MinorsChecked++

			row, ok := mapping.Lookup(entry.ID)
			if !ok {
				diagnostics[fmt.Sprintf("Missing FanGraphs ID mapping for Fantrax ID: %s", entry.ID)] = struct{}{}
				continue
			}

			ref := ParseProviderRef(row.FanGraphsID)
			switch ref.Kind {
			case RefMissing:
				diagnostics[fmt.Sprintf("No FanGraphs ID for Fantrax ID: %s", entry.ID)] = struct{}{}
				continue
			case RefNoMLBHistory:
				// Eligible by definition: the player never accumulated an
				// MLB line. Not a data problem, so no diagnostic.
				continue
			}

			isPitcher := IsPitcher(entry.Position)
			index := batting
			if isPitcher {
				index = pitching
			}

			totals, ok := index[ref.ID]
			if !ok {
				diagnostics[fmt.Sprintf("No stats for %s (FG ID: %d)", row.Name, ref.ID)] = struct{}{}
				continue
			}

			eligible, total := CheckEligibility(totals, isPitcher)
			if eligible {
				continue
			}

			label := BatterThresholdLabel
			if isPitcher {
				label = PitcherThresholdLabel
				e.metrics.PitcherViolations++
			} else {
				e.metrics.BatterViolations++
			}

			violations = append(violations, Violation{
				Player:       row.Name,
				Position:     entry.Position,
				Team:         team.TeamName,
				CurrentTotal: roundTotal(total),
				Threshold:    label,
			})
		}
	}

	notes := make([]string, 0, len(diagnostics))
	for note := range diagnostics {
		notes = append(notes, note)
	}
	sort.Strings(notes)

	return violations, notes
}

// Metrics returns counters from the most recent reconcile.
func (e *Engine) Metrics() Metrics {
	return *e.metrics
}

// roundTotal rounds for display only; the predicate always judges the raw
// value, so 50.049 IP violates and reports as 50.0.
func roundTotal(v float64) float64 {
	return math.Round(v*10) / 10
}
