package ranking

import (
	"context"
	"time"

	"github.com/randytsao24/gotolondon/internal/cache"
	"github.com/randytsao24/gotolondon/internal/models"
)

// Ranker is satisfied by Engine and Cached
type Ranker interface {
	Destinations() []string
	Rank(ctx context.Context, destination string) ([]models.RankedDestinationOption, error)
}

// Cached reuses a destination's ranking for a short TTL so bursts of requests
// share one round of TfL calls. Concurrent misses wait on the first caller's
// ranking, and with it that caller's context. Failures are never reused.
type Cached struct {
	Ranker
	results *cache.Cache[[]models.RankedDestinationOption]
}

// NewCached wraps r. Call Close to stop the cache's background sweep.
func NewCached(r Ranker, ttl time.Duration) *Cached {
	return &Cached{
		Ranker:  r,
		results: cache.New[[]models.RankedDestinationOption](ttl),
	}
}

func (c *Cached) Rank(ctx context.Context, destination string) ([]models.RankedDestinationOption, error) {
	return c.results.GetOrLoad(destination, func() ([]models.RankedDestinationOption, error) {
		return c.Ranker.Rank(ctx, destination)
	})
}

func (c *Cached) Close() {
	c.results.Close()
}
