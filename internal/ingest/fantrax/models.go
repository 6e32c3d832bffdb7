package fantrax

// RosterEntry is one player slot on a team's roster.
type RosterEntry struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Position string `json:"position"`
}

// Team bundles a Fantrax team with its roster entries.
type Team struct {
	TeamID      string        `json:"teamId"`
	TeamName    string        `json:"teamName"`
	RosterItems []RosterEntry `json:"rosterItems"`
}

// RosterSnapshot is one point-in-time view of every roster in a league.
// Teams keep the order of the source document so repeated reconciles over
// the same payload walk teams identically.
type RosterSnapshot struct {
	Teams []Team `json:"teams"`
}
