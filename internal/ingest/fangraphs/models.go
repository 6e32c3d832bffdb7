package fangraphs

import (
	"strconv"
	"strings"
)

// CareerTotals is one player's accumulated usage through the current
// season. Batting pages populate AB, pitching pages populate IP; a field
// the source never sent stays zero.
type CareerTotals struct {
	Name string  `json:"name"`
	AB   float64 `json:"ab"`
	IP   float64 `json:"ip"`
}

// CareerIndex maps a FanGraphs player id to its career totals.
type CareerIndex map[int64]CareerTotals

// leadersPage mirrors the /api/leaders/major-league/data payload.
type leadersPage struct {
	Data []leaderRow `json:"data"`
}

type leaderRow struct {
	PlayerID flexID  `json:"playerid"`
	Name     string  `json:"Name"`
	AB       float64 `json:"AB"`
	IP       float64 `json:"IP"`
}

// flexID decodes the playerid field, which FanGraphs serves as a JSON
// number for MLB players and as a string (e.g. "sa3014277") for minor
// leaguers with no MLB line. Non-integer ids can never match the mapping
// file's integer join key, so they decode as not-joinable rather than
// failing the page.
type flexID struct {
	id int64
	ok bool
}

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f.ok = false
		return nil
	}
	f.id = id
	f.ok = true
	return nil
}
