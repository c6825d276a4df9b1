// Package availability loads the set of episodes and movies the streaming
// service can currently resolve. The source is a single flat list endpoint;
// failures degrade to an empty set so a run can still produce output.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"vixstream/models"
)

// The full episode list is one large JSON array; cap how much of a
// misbehaving response we are willing to buffer.
const maxResponseBytes = 64 << 20

// Client fetches availability lists.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates an availability client for the given service base URL.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "availability"),
	}
}

// Episodes returns every (series, season, episode) tuple the service lists.
// On failure it returns an empty slice along with the error; callers treat
// that as degraded mode, not as a reason to abort.
func (c *Client) Episodes(ctx context.Context) ([]models.EpisodeKey, error) {
	var keys []models.EpisodeKey
	if err := c.getList(ctx, c.baseURL+"/api/list/episode/?lang=it", &keys); err != nil {
		return nil, err
	}
	c.log.Info("loaded episode list", "episodes", len(keys))
	return keys, nil
}

// Movies returns the ids of every movie the service lists, deduplicated in
// first-seen order. Entries without a usable id are skipped.
func (c *Client) Movies(ctx context.Context) ([]int, error) {
	var raw []struct {
		TMDBID int `json:"tmdb_id"`
	}
	if err := c.getList(ctx, c.baseURL+"/api/list/movie/?lang=it", &raw); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(raw))
	ids := make([]int, 0, len(raw))
	for _, item := range raw {
		if item.TMDBID <= 0 {
			continue
		}
		if _, dup := seen[item.TMDBID]; dup {
			continue
		}
		seen[item.TMDBID] = struct{}{}
		ids = append(ids, item.TMDBID)
	}
	c.log.Info("loaded movie list", "movies", len(ids))
	return ids, nil
}

func (c *Client) getList(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("availability: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("availability: fetch list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("availability: fetch list: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("availability: decode list: %w", err)
	}
	return nil
}
