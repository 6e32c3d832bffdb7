package fangraphs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// BaseURL for the FanGraphs leaders API
	BaseURL = "https://www.fangraphs.com"

	leadersPath = "/api/leaders/major-league/data"

	// PageSize is the fixed record count requested per page.
	PageSize = 200

	// DefaultPageDelay is the politeness pause between page requests.
	DefaultPageDelay = 500 * time.Millisecond

	userAgent = "farmcheck/1.0"
)

// Stat groups exposed as separate leaderboard resources.
const (
	GroupBatting  = "bat"
	GroupPitching = "pit"
)

// PageFunc receives pagination progress: the stat group just fetched, the
// page number and how many records it held.
type PageFunc func(group string, page, records int)

// Client pages through the FanGraphs leaders API to build career usage
// indexes covering the 2010-to-current-season window.
type Client struct {
	baseURL string
	season  string
	http    *http.Client

	// PageDelay is the pause between page requests. Zero disables it
	// (tests use stub servers that need no throttling).
	PageDelay time.Duration
}

// New creates a FanGraphs client. An empty baseURL selects the production
// API; an empty season selects the current calendar year.
func New(baseURL, season string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if season == "" {
		season = strconv.Itoa(time.Now().Year())
	}
	return &Client{
		baseURL:   baseURL,
		season:    season,
		http:      &http.Client{Timeout: 30 * time.Second},
		PageDelay: DefaultPageDelay,
	}
}

// FetchCareerStats pages through the batting and pitching leaderboards and
// returns one index per group. A page failure truncates that group's
// sequence: whatever was fetched is kept and the failure comes back as a
// warning, never an error. When a player id repeats across pages the last
// page wins.
func (c *Client) FetchCareerStats(ctx context.Context, onPage PageFunc) (batting, pitching CareerIndex, warnings []string) {
	batting, warnings = c.fetchGroup(ctx, GroupBatting, onPage, warnings)
	pitching, warnings = c.fetchGroup(ctx, GroupPitching, onPage, warnings)
	return batting, pitching, warnings
}

func (c *Client) fetchGroup(ctx context.Context, group string, onPage PageFunc, warnings []string) (CareerIndex, []string) {
	index := make(CareerIndex)

	for page := 1; ; page++ {
		if page > 1 && c.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return index, append(warnings, fmt.Sprintf("%s stats truncated at page %d: %v", group, page, ctx.Err()))
			case <-time.After(c.PageDelay):
			}
		}

		result, err := c.fetchPage(ctx, group, page)
		if err != nil {
			return index, append(warnings, fmt.Sprintf("%s stats truncated at page %d: %v", group, page, err))
		}

		if len(result.Data) == 0 {
			return index, warnings
		}

		for _, row := range result.Data {
			if !row.PlayerID.ok {
				continue
			}
			index[row.PlayerID.id] = CareerTotals{Name: row.Name, AB: row.AB, IP: row.IP}
		}

		if onPage != nil {
			onPage(group, page, len(result.Data))
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, group string, page int) (*leadersPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.leadersURL(group, page), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result leadersPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// leadersURL builds the fixed query the career window requires: all
// positions and leagues, unqualified, 2010 through the current season,
// WAR-sorted for a stable page order.
func (c *Client) leadersURL(group string, page int) string {
	q := url.Values{}
	q.Set("age", "")
	q.Set("pos", "all")
	q.Set("lg", "all")
	q.Set("qual", "0")
	q.Set("season", c.season)
	q.Set("season1", "2010")
	q.Set("startdate", "")
	q.Set("enddate", "")
	q.Set("month", "0")
	q.Set("hand", "")
	q.Set("team", "0")
	q.Set("pageitems", strconv.Itoa(PageSize))
	q.Set("ind", "0")
	q.Set("rost", "0")
	q.Set("players", "")
	q.Set("type", "8")
	q.Set("postseason", "")
	q.Set("sortdir", "default")
	q.Set("sortstat", "WAR")
	q.Set("stats", group)
	q.Set("pagenum", strconv.Itoa(page))

	return c.baseURL + leadersPath + "?" + q.Encode()
}
