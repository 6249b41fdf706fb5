// Package render groups the output renderers for story canvases.
//
// # Overview
//
// Renderers never touch a live canvas. They draw a [canvas.Snapshot], so a
// server can render while clients keep interacting:
//
//   - [svg] writes self-contained SVG with gradient cards, arrowed edges and
//     optional hover styles.
//   - [raster] draws the same picture to PNG with fogleman/gg.
//
// The terminal view in the CLI draws snapshots as text and lives with the
// command that uses it.
//
//	snap := cv.Snapshot()
//	doc := svg.RenderSVG(snap, svg.WithInteraction())
//	img, err := raster.RenderPNG(snap, raster.WithScale(2))
//
// # Frames
//
// By default both renderers frame the whole graph plus a margin. With the
// viewport option they frame exactly what the snapshot's viewport shows,
// which is what an interactive client sees.
//
// [canvas.Snapshot]: github.com/matzehuels/storygraph/pkg/canvas#Snapshot
// [svg]: github.com/matzehuels/storygraph/pkg/render/svg
// [raster]: github.com/matzehuels/storygraph/pkg/render/raster
package render
