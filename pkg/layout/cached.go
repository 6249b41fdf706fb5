package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/storygraph/pkg/cache"
	"github.com/matzehuels/storygraph/pkg/observability"
)

// DefaultCacheTTL is how long engine coordinates stay cached.
const DefaultCacheTTL = 7 * 24 * time.Hour

// CachedEngine memoizes another engine's coordinates. Only non-empty
// results are stored. Cache read and write failures are ignored; the inner
// engine result always wins.
type CachedEngine struct {
	Inner Engine
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// NewCachedEngine wraps inner. A nil keyer selects the default keyer.
func NewCachedEngine(inner Engine, c cache.Cache, keyer cache.Keyer) *CachedEngine {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedEngine{Inner: inner, Cache: c, Keyer: keyer, TTL: DefaultCacheTTL}
}

// Name returns the inner engine name.
func (e *CachedEngine) Name() string { return e.Inner.Name() }

// Layout returns cached coordinates when present, and otherwise runs the
// inner engine and stores a non-empty result.
func (e *CachedEngine) Layout(ctx context.Context, root string, edges []Edge) (Positions, error) {
	if root == "" {
		return nil, nil
	}
	key := e.key(root, edges)

	if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
		var pos Positions
		if json.Unmarshal(data, &pos) == nil && len(pos) > 0 {
			observability.Cache().OnCacheHit(ctx, "layout")
			return pos, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	pos, err := e.Inner.Layout(ctx, root, edges)
	if err != nil || len(pos) == 0 {
		return pos, err
	}
	if data, err := json.Marshal(pos); err == nil {
		if e.Cache.Set(ctx, key, data, e.TTL) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return pos, nil
}

type dotOptioner interface{ DOTOptions() DOTOptions }

func (e *CachedEngine) key(root string, edges []Edge) string {
	data, _ := json.Marshal(struct {
		Root  string `json:"root"`
		Edges []Edge `json:"edges"`
	}{root, edges})

	opts := cache.LayoutKeyOpts{Engine: e.Inner.Name()}
	if d, ok := e.Inner.(dotOptioner); ok {
		o := d.DOTOptions()
		opts.NodeWidth, opts.NodeHeight = o.NodeWidth, o.NodeHeight
		opts.RankSep, opts.NodeSep = o.RankSep, o.NodeSep
	}
	return e.Keyer.LayoutKey(cache.Hash(data), opts)
}
