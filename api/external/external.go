/* external.go
 * Contains the HTTP client used to fetch raw match data from the provider API.
 * All requests carry bearer auth, a bounded timeout and go through a shared
 * rate limiter so bursts of cache misses cannot exhaust the provider quota.
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"matchbot/api/shared"
)

const (
	// DefaultBaseURL points at the hosted provider API.
	DefaultBaseURL = "https://api.pandascore.co"

	requestTimeout = 10 * time.Second
)

// Filters narrow a match query. Day selects a single UTC date for upcoming
// lists, Live asks for currently running matches instead, and Limit caps the
// page size for team history queries.
type Filters struct {
	Day   string // "2006-01-02", empty means no date filter
	Live  bool
	Limit int
}

// Client fetches raw match records from the provider over HTTPS.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a provider client. An empty baseURL selects the hosted
// API; tests point it at a local server.
func NewClient(baseURL string, token string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
		// Two requests per second sustained, small burst for express lookups
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 4),
		log:     log.With().Str("component", "provider").Logger(),
	}
}

// ListMatches fetches upcoming (or, with f.Live, currently running) matches
// for a game. Results arrive in provider order; callers sort.
func (c *Client) ListMatches(ctx context.Context, game shared.Game, f Filters) ([]MatchRecord, error) {
	path := fmt.Sprintf("/%s/matches/upcoming", game)
	if f.Live {
		path = fmt.Sprintf("/%s/matches/running", game)
	}

	params := url.Values{}
	params.Set("sort", "begin_at")
	params.Set("page[size]", "50")
	if f.Day != "" && !f.Live {
		day, err := time.Parse("2006-01-02", f.Day)
		if err != nil {
			return nil, fmt.Errorf("invalid day filter %q: %w", f.Day, err)
		}
		next := day.AddDate(0, 0, 1)
		params.Set("range[begin_at]", fmt.Sprintf("%s,%s",
			day.Format(time.RFC3339), next.Format(time.RFC3339)))
	}

	return c.fetchRecords(ctx, path, params)
}

// ListTeamMatches fetches the most recent matches involving a team, newest
// first, capped at f.Limit.
func (c *Client) ListTeamMatches(ctx context.Context, teamID string, f Filters) ([]MatchRecord, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	params := url.Values{}
	params.Set("filter[opponent_id]", teamID)
	params.Set("sort", "-begin_at")
	params.Set("page[size]", strconv.Itoa(limit))

	return c.fetchRecords(ctx, "/matches", params)
}

// fetchRecords performs a GET against the provider and decodes the record
// array. Any non-200 status is an error; translating that into an empty
// result is the aggregator's job, not ours.
func (c *Client) fetchRecords(ctx context.Context, path string, params url.Values) ([]MatchRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Accept", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d for %s", response.StatusCode, path)
	}

	var records []MatchRecord
	if err := json.NewDecoder(response.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	c.log.Debug().Str("path", path).Int("records", len(records)).Msg("fetched provider records")
	return records, nil
}
