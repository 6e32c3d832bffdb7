package eligibility

import (
	"strconv"

	"github.com/fortuna/farmcheck/internal/ingest/fangraphs"
)

// Career usage thresholds for minors eligibility. The boundary itself is
// still eligible: exactly 50 IP or exactly 130 AB stays in the minors.
const (
	PitcherIPThreshold = 50.0
	BatterABThreshold  = 130.0

	PitcherThresholdLabel = "50 IP"
	BatterThresholdLabel  = "130 AB"
)

// MinorsStatus is the Fantrax roster status designating a minors slot.
const MinorsStatus = "MINORS"

// IsPitcher classifies a roster position. Anything outside the pitcher
// subtypes counts as a batter.
func IsPitcher(position string) bool {
	switch position {
	case "SP", "RP", "P":
		return true
	}
	return false
}

// RefKind classifies a mapping row's FanGraphs id field.
type RefKind int

const (
	// RefNumeric resolves to an integer FanGraphs player id.
	RefNumeric RefKind = iota

	// RefMissing means the field is empty/unset: the row exists but
	// carries no id. Surfaced as a diagnostic.
	RefMissing

	// RefNoMLBHistory means the field holds a non-integer value, which the
	// mapping file uses to mark players with no MLB statistical history.
	// Such players are minors-eligible by definition and never produce a
	// diagnostic.
	RefNoMLBHistory
)

// ProviderRef is the parsed form of a mapping row's FanGraphs id.
type ProviderRef struct {
	Kind RefKind
	ID   int64
}

// ParseProviderRef interprets a normalized IDFANGRAPHS value.
func ParseProviderRef(raw string) ProviderRef {
	if raw == "" {
		return ProviderRef{Kind: RefMissing}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ProviderRef{Kind: RefNoMLBHistory}
	}
	return ProviderRef{Kind: RefNumeric, ID: id}
}

// CheckEligibility applies the career-usage predicate to one player and
// returns the verdict plus the accumulated total it was judged on.
func CheckEligibility(totals fangraphs.CareerTotals, isPitcher bool) (eligible bool, total float64) {
	if isPitcher {
		return totals.IP <= PitcherIPThreshold, totals.IP
	}
	return totals.AB <= BatterABThreshold, totals.AB
}
