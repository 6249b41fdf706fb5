// Package pkg provides the libraries behind storygraph, a visualizer for
// branching interactive stories.
//
// # Overview
//
// A story is a set of scenes linked by choices. Storygraph lays the scenes
// out top to bottom, draws each as a card with arrows for its choices and
// lets clients pan, zoom, hover, select and drag on the result.
//
// # Architecture
//
// The typical data flow:
//
//	story JSON (file, HTTP upload or generator)
//	         ↓
//	    [story] package (scenes, choices, graph index)
//	         ↓
//	    [layout] package (spanning tree → Graphviz, or breadth-first grid)
//	         ↓
//	    [canvas] package (cards, edges, viewport, interaction)
//	         ↓
//	    [render/svg], [render/raster], terminal view, [export]
//
// # Quick Start
//
//	s, _ := story.ImportJSON("cave.json")
//
//	l := layout.New(layout.NewGraphvizEngine(layout.DefaultDOTOptions()), nil)
//	cv := canvas.New(canvas.DefaultConfig(), l, nil)
//	if err := cv.Load(ctx, s); err != nil {
//	    return err
//	}
//
//	os.WriteFile("cave.svg", svg.RenderSVG(cv.Snapshot()), 0o644)
//	fmt.Println(analysis.Analyze(cv.Graph()).Summary())
//
// # Main Packages
//
// ## Domain
//
// [story] - Stories, scenes and choices with their JSON form, plus a
// read-only graph index that resolves ids, targets and dangling choices.
//
// [layout] - Spanning tree extraction, hierarchical engines (embedded
// Graphviz, dot binary, cached) and the breadth-first fallback grid.
//
// [canvas] - The scene graph: cards, connection edges, viewport and all
// pointer interaction. Snapshots hand consistent copies to renderers.
//
// [analysis] - Counts, branching, depth, reachability and recommendations.
//
// [generator] - Story generation from a brief through Gemini, cached by
// request fingerprint.
//
// ## Output
//
// [render/svg] and [render/raster] draw snapshots. [export] encodes stories
// and renders them to files or S3-compatible object storage.
//
// ## Infrastructure
//
// [cache] - File, Redis and MongoDB caches for layouts and stories.
//
// [config] - TOML configuration with environment overrides.
//
// [server] - HTTP and WebSocket service hosting live canvases.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for layout, cache and generator events.
//
// [buildinfo] - Version information set at build time.
//
// [story]: github.com/matzehuels/storygraph/pkg/story
// [layout]: github.com/matzehuels/storygraph/pkg/layout
// [canvas]: github.com/matzehuels/storygraph/pkg/canvas
// [analysis]: github.com/matzehuels/storygraph/pkg/analysis
// [generator]: github.com/matzehuels/storygraph/pkg/generator
// [render/svg]: github.com/matzehuels/storygraph/pkg/render/svg
// [render/raster]: github.com/matzehuels/storygraph/pkg/render/raster
// [export]: github.com/matzehuels/storygraph/pkg/export
// [cache]: github.com/matzehuels/storygraph/pkg/cache
// [config]: github.com/matzehuels/storygraph/pkg/config
// [server]: github.com/matzehuels/storygraph/pkg/server
// [errors]: github.com/matzehuels/storygraph/pkg/errors
// [observability]: github.com/matzehuels/storygraph/pkg/observability
// [buildinfo]: github.com/matzehuels/storygraph/pkg/buildinfo
package pkg
