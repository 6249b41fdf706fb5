// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hook registries; the
// application registers concrete implementations at startup. Defaults are
// no-ops, so instrumented code never checks for nil.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, "graphviz", scenes)
//	// ... run the engine ...
//	observability.Layout().OnLayoutComplete(ctx, "graphviz", "engine", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout and canvas build pipeline.
type LayoutHooks interface {
	// OnLayoutStart fires before the layout engine runs.
	OnLayoutStart(ctx context.Context, engine string, scenes int)

	// OnLayoutComplete fires after positions are resolved. source is
	// "engine" or "fallback"; err is the engine error, if any.
	OnLayoutComplete(ctx context.Context, engine, source string, duration time.Duration, err error)

	// OnBuildComplete fires when a canvas load finishes or rolls back.
	OnBuildComplete(ctx context.Context, cards, edges int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Generator Hooks
// =============================================================================

// GeneratorHooks receives events from story generation.
type GeneratorHooks interface {
	OnGenerateStart(ctx context.Context, model string)
	OnGenerateComplete(ctx context.Context, model string, scenes int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopLayoutHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopGeneratorHooks is a no-op implementation of GeneratorHooks.
type NoopGeneratorHooks struct{}

func (NoopGeneratorHooks) OnGenerateStart(context.Context, string) {}
func (NoopGeneratorHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks    LayoutHooks    = NoopLayoutHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	generatorHooks GeneratorHooks = NoopGeneratorHooks{}
	hooksMu        sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetGeneratorHooks registers custom generator hooks. A nil h is ignored.
func SetGeneratorHooks(h GeneratorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generatorHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Generator returns the registered generator hooks.
func Generator() GeneratorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generatorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	generatorHooks = NoopGeneratorHooks{}
}
