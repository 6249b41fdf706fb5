// Package layout computes 2D positions for the scenes of a story.
//
// # Overview
//
// Layout runs in three steps:
//
//  1. [BuildTree] reduces the choice graph to a spanning tree by a
//     depth-first walk from the start scene. The first path to reach a
//     scene owns it, which breaks cycles and merges convergent paths.
//  2. An [Engine] ranks the tree top to bottom and returns node centres.
//     [GraphvizEngine] runs dot in-process; [ExecEngine] shells out to a
//     dot binary; [CachedEngine] memoizes either through pkg/cache.
//  3. When the engine is missing, fails, times out or returns nothing,
//     [FallbackPositions] places scenes on a grid by breadth-first level.
//
// [Layouter.Compute] drives all three and never returns an error: the
// worst outcome is a fallback grid.
//
// # Coordinates
//
// Positions use canvas coordinates with Y growing downward, matching SVG
// and terminal output. Graphviz reports Y growing upward, so engine output
// is negated on parse.
//
// # Unreachable Scenes
//
// Scenes not reachable from the start appear in neither the tree nor the
// fallback grid. Callers decide where to put them; the canvas parks them on
// an extra row below the layout and flags them as orphans.
package layout
