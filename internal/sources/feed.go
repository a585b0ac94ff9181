package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/go-resty/resty/v2"
)

// FogosFeed fetches active incidents from the fogos.pt API.
type FogosFeed struct {
	client  *resty.Client
	feedURL string
}

// Ensure FogosFeed implements Feed
var _ Feed = (*FogosFeed)(nil)

// NewFogosFeed creates a new incident feed client.
func NewFogosFeed(feedURL string, timeout time.Duration) *FogosFeed {
	return &FogosFeed{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "BVOFradesBot/1.0 (Go)"),
		feedURL: feedURL,
	}
}

// FetchIncidents returns the current active incident batch. The API has
// served two shapes over time: a {"data":[...]} wrapper and a bare array.
// Both are accepted.
func (f *FogosFeed) FetchIncidents(ctx context.Context) ([]models.Incident, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(f.feedURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch incident feed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("incident feed returned status %d", resp.StatusCode())
	}

	return parseIncidents(resp.Body())
}

func parseIncidents(body []byte) ([]models.Incident, error) {
	var wrapped struct {
		Data []models.Incident `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var plain []models.Incident
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain, nil
	}

	return nil, fmt.Errorf("unknown incident feed response shape")
}
