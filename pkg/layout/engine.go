package layout

import "context"

// Point is a 2D coordinate in canvas space. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps scene ids to node centres.
type Positions map[string]Point

// Bounds returns the min and max corners of the positions. ok is false when
// p is empty.
func (p Positions) Bounds() (lo, hi Point, ok bool) {
	first := true
	for _, pt := range p {
		if first {
			lo, hi, first = pt, pt, false
			continue
		}
		lo.X, lo.Y = min(lo.X, pt.X), min(lo.Y, pt.Y)
		hi.X, hi.Y = max(hi.X, pt.X), max(hi.Y, pt.Y)
	}
	return lo, hi, !first
}

// Engine computes coordinates for a rooted tree ranked top to bottom.
//
// Implementations return positions keyed by scene id with Y growing
// downward. An engine that cannot produce coordinates returns an error or
// an empty map; [Layouter] treats both as "no layout" and falls back.
type Engine interface {
	Name() string
	Layout(ctx context.Context, root string, edges []Edge) (Positions, error)
}

// EngineFunc adapts a function to the [Engine] interface.
type EngineFunc func(ctx context.Context, root string, edges []Edge) (Positions, error)

// Name returns "func".
func (f EngineFunc) Name() string { return "func" }

// Layout calls f.
func (f EngineFunc) Layout(ctx context.Context, root string, edges []Edge) (Positions, error) {
	return f(ctx, root, edges)
}
