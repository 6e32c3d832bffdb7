package fantrax

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BaseURL for the Fantrax external API
const BaseURL = "https://www.fantrax.com"

const rostersPath = "/fxea/general/getTeamRosters"

// ErrMalformedResponse means the roster payload was missing its top-level
// rosters object. Fatal to the run: there is nothing to reconcile against.
var ErrMalformedResponse = errors.New("fantrax: response missing rosters object")

// Client fetches league roster snapshots from the Fantrax external API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Fantrax client. An empty baseURL selects production.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchRosters fetches the current roster assignment for every team in the
// league. Any transport error or malformed payload is terminal.
func (c *Client) FetchRosters(ctx context.Context, leagueID string) (*RosterSnapshot, error) {
	reqURL := fmt.Sprintf("%s%s?leagueId=%s", c.baseURL, rostersPath, url.QueryEscape(leagueID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	snapshot, err := decodeSnapshot(resp.Body)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// decodeSnapshot walks the payload token-by-token instead of decoding into
// a map, because the rosters object's key order is the team order and map
// decoding would discard it.
func decodeSnapshot(r io.Reader) (*RosterSnapshot, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrMalformedResponse
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, ErrMalformedResponse
		}

		if key != "rosters" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("decoding response: %w", err)
			}
			continue
		}

		return decodeRosters(dec)
	}

	return nil, ErrMalformedResponse
}

func decodeRosters(dec *json.Decoder) (*RosterSnapshot, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding rosters: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrMalformedResponse
	}

	snapshot := &RosterSnapshot{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding rosters: %w", err)
		}
		teamID, ok := keyTok.(string)
		if !ok {
			return nil, ErrMalformedResponse
		}

		var team Team
		if err := dec.Decode(&team); err != nil {
			return nil, fmt.Errorf("decoding team %s: %w", teamID, err)
		}
		team.TeamID = teamID
		snapshot.Teams = append(snapshot.Teams, team)
	}

	return snapshot, nil
}
