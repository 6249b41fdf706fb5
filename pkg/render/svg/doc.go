// Package svg renders canvas snapshots as standalone SVG documents.
//
// Cards become rounded rectangles filled with their role gradient, edges
// become arrow-headed lines with a label panel at their midpoint, and the
// full choice text is attached as a <title> tooltip. [WithInteraction]
// embeds a small script that reproduces the hover and selection states of
// the interactive canvas in a browser.
//
//	snap := c.Snapshot()
//	data := svg.RenderSVG(snap, svg.WithInteraction())
package svg
