package layout

import "github.com/matzehuels/storygraph/pkg/story"

// Spacing is the grid used by the fallback layout, in canvas pixels.
type Spacing struct {
	ColumnWidth float64
	RowHeight   float64
}

// DefaultSpacing leaves 50px between 300x200 cards.
func DefaultSpacing() Spacing {
	return Spacing{ColumnWidth: 350, RowHeight: 250}
}

// Levels assigns each scene reachable from the start its breadth-first
// distance along choices. order lists the reached scenes in visit order.
// Scenes reached by several paths keep their first level.
func Levels(g *story.Graph) (levels map[string]int, order []string) {
	levels = make(map[string]int)
	start := g.StartID()
	if start == "" {
		return levels, nil
	}

	levels[start] = 0
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range g.Targets(id) {
			if _, seen := levels[next]; seen {
				continue
			}
			levels[next] = levels[id] + 1
			queue = append(queue, next)
		}
	}
	return levels, order
}

// FallbackPositions lays scenes out on a grid by BFS level: one row per
// level, each row centred on x=0, rows sp.RowHeight apart starting at y=0.
// Unreachable scenes get no position.
func FallbackPositions(g *story.Graph, sp Spacing) Positions {
	levels, order := Levels(g)

	rows := make(map[int][]string)
	for _, id := range order {
		rows[levels[id]] = append(rows[levels[id]], id)
	}

	pos := make(Positions, len(order))
	for level, ids := range rows {
		total := float64(len(ids)) * sp.ColumnWidth
		x0 := -total/2 + sp.ColumnWidth/2
		for i, id := range ids {
			pos[id] = Point{X: x0 + float64(i)*sp.ColumnWidth, Y: float64(level) * sp.RowHeight}
		}
	}
	return pos
}
