package generator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/storygraph/pkg/cache"
	"github.com/matzehuels/storygraph/pkg/observability"
	"github.com/matzehuels/storygraph/pkg/story"
)

// DefaultCacheTTL is how long generated stories stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Cached memoizes another generator's stories by request. Cache failures
// are ignored.
type Cached struct {
	Inner Generator
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// NewCached wraps inner. A nil keyer selects the default keyer.
func NewCached(inner Generator, c cache.Cache, keyer cache.Keyer) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{Inner: inner, Cache: c, Keyer: keyer, TTL: DefaultCacheTTL}
}

// Name returns the inner generator name.
func (g *Cached) Name() string { return g.Inner.Name() }

// Generate returns a cached story for an equivalent request, or generates
// and stores a new one.
func (g *Cached) Generate(ctx context.Context, req Request) (story.Story, error) {
	if err := req.Validate(); err != nil {
		return story.Story{}, err
	}
	key := g.key(req)

	if data, hit, err := g.Cache.Get(ctx, key); err == nil && hit {
		if s, err := story.Unmarshal(data); err == nil && len(s.Scenes) > 0 {
			observability.Cache().OnCacheHit(ctx, "story")
			return s, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "story")

	s, err := g.Inner.Generate(ctx, req)
	if err != nil {
		return story.Story{}, err
	}
	if data, err := story.Marshal(s); err == nil {
		if g.Cache.Set(ctx, key, data, g.TTL) == nil {
			observability.Cache().OnCacheSet(ctx, "story", len(data))
		}
	}
	return s, nil
}

func (g *Cached) key(req Request) string {
	data, _ := json.Marshal(req.Normalize())
	return g.Keyer.StoryKey(cache.Hash(data), cache.StoryKeyOpts{Model: g.Inner.Name()})
}
