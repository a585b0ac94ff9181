package sources

import (
	"context"
	"sync"
	"time"

	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/jonboulle/clockwork"
)

// CachedWaterPointSource wraps a WaterPointSource with a time-to-live
// cache. The candidate set changes rarely, so re-fetching the snapshot on
// every incident is wasteful once a TTL is configured.
type CachedWaterPointSource struct {
	inner WaterPointSource
	ttl   time.Duration
	clock clockwork.Clock

	mu        sync.Mutex
	points    []models.WaterPoint
	fetchedAt time.Time
}

var _ WaterPointSource = (*CachedWaterPointSource)(nil)

// NewCachedWaterPointSource creates a cache decorator around a source.
func NewCachedWaterPointSource(inner WaterPointSource, ttl time.Duration, clock clockwork.Clock) *CachedWaterPointSource {
	return &CachedWaterPointSource{
		inner: inner,
		ttl:   ttl,
		clock: clock,
	}
}

// Load returns the cached set while it is fresh, refetching otherwise.
// Only non-empty results are cached so a transient snapshot outage can be
// retried on the next lookup.
func (c *CachedWaterPointSource) Load(ctx context.Context) []models.WaterPoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.points != nil && c.clock.Since(c.fetchedAt) < c.ttl {
		return c.points
	}

	points := c.inner.Load(ctx)
	if len(points) > 0 {
		c.points = points
		c.fetchedAt = c.clock.Now()
	}

	return points
}
