// Package canvas models a loaded story as interactive cards and edges.
//
// A [Canvas] owns one [Card] per scene and one [Edge] per choice that
// connects two distinct scenes. [Canvas.Load] runs the build pipeline:
// layout through pkg/layout, one card per scene, centring on the origin,
// orphan placement, edges and a fitted [Viewport]. Pointer and keyboard
// handling is expressed as state transitions that report whether a redraw
// is needed, so the same canvas drives the terminal viewer, the HTTP
// service and the batch renderers.
//
// Renderers never touch cards directly. They work from a [Snapshot], a
// detached copy that also carries the derived [CardStyle] and [EdgeStyle]
// of every element.
//
// Coordinates are canvas units with Y growing downward; card positions are
// centres.
package canvas
