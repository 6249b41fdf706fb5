package cli

import (
	"context"
	"time"

	"github.com/matzehuels/storygraph/pkg/cache"
	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/config"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/export"
	"github.com/matzehuels/storygraph/pkg/generator"
	"github.com/matzehuels/storygraph/pkg/layout"
	"github.com/matzehuels/storygraph/pkg/story"
)

// connectTimeout bounds cache backend connection attempts.
const connectTimeout = 5 * time.Second

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching; network backends report their error.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache {
		return cache.NewNullCache(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	case config.CacheMongo:
		return cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        cfg.Cache.MongoURI,
			Database:   cfg.Cache.MongoDatabase,
			Collection: cfg.Cache.MongoCollection,
		})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/storygraph.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return dir, nil
	}
	return config.CacheDir()
}

// newEngine returns the configured layout engine wrapped in the cache, or
// nil for the "none" engine.
func (c *CLI) newEngine(store cache.Cache) layout.Engine {
	cfg := c.config()
	opts := cfg.DOTOptions()

	var engine layout.Engine
	switch cfg.Layout.Engine {
	case config.EngineNone:
		return nil
	case config.EngineExec:
		engine = layout.NewExecEngine(cfg.Layout.DotPath, opts)
	default:
		engine = layout.NewGraphvizEngine(opts)
	}

	if store == nil {
		return engine
	}
	cached := layout.NewCachedEngine(engine, store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName))
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		cached.TTL = ttl
	}
	return cached
}

// newLayouter builds a layouter from the config.
func (c *CLI) newLayouter(store cache.Cache) *layout.Layouter {
	cfg := c.config()
	l := layout.New(c.newEngine(store), c.Logger)
	if t := cfg.Layout.Timeout.Duration; t > 0 {
		l.Timeout = t
	}
	l.Spacing = cfg.Spacing()
	return l
}

// loadCanvas reads a story file and builds a canvas for it.
func (c *CLI) loadCanvas(ctx context.Context, path string, noCache bool) (*canvas.Canvas, error) {
	s, err := story.ImportJSON(path)
	if err != nil {
		return nil, err
	}

	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cv := canvas.New(c.config().CanvasConfig(), c.newLayouter(store), c.Logger)
	if err := cv.Load(ctx, s); err != nil {
		return nil, err
	}
	return cv, nil
}

// s3Config maps the config file's S3 section onto the export sink's.
func (c *CLI) s3Config() export.S3Config {
	s := c.config().S3
	return export.S3Config{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Bucket:    s.Bucket,
		Secure:    s.Secure,
	}
}

// newGenerator returns the Gemini generator behind the story cache. It
// fails with INVALID_INPUT when no API key is configured.
func (c *CLI) newGenerator(ctx context.Context, store cache.Cache) (generator.Generator, error) {
	cfg := c.config().Generator
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no API key: set GEMINI_API_KEY or generator.api_key")
	}
	g, err := generator.NewGemini(ctx, cfg.APIKey, cfg.Model, c.Logger)
	if err != nil {
		return nil, err
	}
	return generator.NewCached(g, store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName)), nil
}
