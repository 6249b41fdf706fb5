package layout

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// DOTOptions controls the graph attributes sent to Graphviz.
type DOTOptions struct {
	// NodeWidth and NodeHeight are the node box size in points. Zero means
	// Graphviz defaults.
	NodeWidth  float64
	NodeHeight float64
	// RankSep and NodeSep are in inches.
	RankSep float64
	NodeSep float64
}

// DefaultDOTOptions sizes nodes so that a 300x200 card scaled by 1.5 does
// not overlap its neighbours.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		NodeWidth:  200,
		NodeHeight: 133.33,
		RankSep:    0.5,
		NodeSep:    0.3,
	}
}

// ToDOT writes a top-to-bottom digraph for the tree given by root and edges.
// Nodes are named n0, n1, ... in order of first appearance so that scene ids
// never need escaping; names maps each node name back to its scene id.
func ToDOT(root string, edges []Edge, opts DOTOptions) (dot string, names map[string]string) {
	ids := make(map[string]string)
	names = make(map[string]string)
	name := func(id string) string {
		if n, ok := ids[id]; ok {
			return n
		}
		n := "n" + strconv.Itoa(len(ids))
		ids[id] = n
		names[n] = id
		return n
	}

	var buf bytes.Buffer
	buf.WriteString("digraph story {\n")
	buf.WriteString("  rankdir=TB;\n")
	if opts.RankSep > 0 {
		fmt.Fprintf(&buf, "  ranksep=%.2f;\n", opts.RankSep)
	}
	if opts.NodeSep > 0 {
		fmt.Fprintf(&buf, "  nodesep=%.2f;\n", opts.NodeSep)
	}
	if opts.NodeWidth > 0 && opts.NodeHeight > 0 {
		fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, label=\"\", width=%.3f, height=%.3f];\n",
			opts.NodeWidth/72, opts.NodeHeight/72)
	} else {
		buf.WriteString("  node [shape=box, label=\"\"];\n")
	}
	buf.WriteString("\n")

	if root != "" {
		fmt.Fprintf(&buf, "  %s;\n", name(root))
	}
	for _, e := range edges {
		from, to := name(e.From), name(e.To)
		fmt.Fprintf(&buf, "  %s -> %s;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String(), names
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="\s*([-+0-9.eE]+)\s*,\s*([-+0-9.eE]+)!?\s*"`)
)

// ParsePositions extracts node centres from Graphviz DOT output produced by
// a layout run. Graphviz places the origin at the bottom left with Y growing
// upward; the returned positions have Y negated so that Y grows downward.
// Nodes not listed in names, and nodes without a parsable pos attribute, are
// skipped.
func ParsePositions(out []byte, names map[string]string) Positions {
	pos := make(Positions)
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		id, ok := names[string(m[1])]
		if !ok {
			continue
		}
		pm := posAttrRe.FindSubmatch(m[2])
		if pm == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pm[1]), 64)
		y, errY := strconv.ParseFloat(string(pm[2]), 64)
		if errX != nil || errY != nil {
			continue
		}
		pos[id] = Point{X: x, Y: -y}
	}
	return pos
}
