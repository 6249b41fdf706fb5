package layout

import "github.com/matzehuels/storygraph/pkg/story"

// Edge is a directed parent→child pair in a layout tree.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TreeNode is one arena slot of a [Tree]. Parent and Children are indices
// into the arena; the root has Parent -1.
type TreeNode struct {
	ID       string
	Parent   int
	Children []int
}

// Tree is the spanning tree used to rank scenes. It is built by a
// depth-first walk from the start scene in which the first path to reach a
// scene owns it; cycles and convergent paths therefore never add a node
// twice. The full choice set is not represented here.
type Tree struct {
	nodes []TreeNode
	byID  map[string]int
}

// BuildTree walks g from its start scene. An empty story yields an empty
// tree. The walk keeps its own stack, so long chains do not recurse.
func BuildTree(g *story.Graph) *Tree {
	t := &Tree{byID: make(map[string]int)}
	start := g.StartID()
	if start == "" {
		return t
	}

	type frame struct {
		node    int
		targets []string
		next    int
	}
	stack := []frame{{node: t.add(start, -1), targets: g.Targets(start)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.targets) {
			stack = stack[:len(stack)-1]
			continue
		}
		id := top.targets[top.next]
		top.next++
		if t.Has(id) {
			continue
		}
		stack = append(stack, frame{node: t.add(id, top.node), targets: g.Targets(id)})
	}
	return t
}

func (t *Tree) add(id string, parent int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, TreeNode{ID: id, Parent: parent})
	t.byID[id] = idx
	if parent >= 0 {
		t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	}
	return idx
}

// Len returns the number of scenes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root scene id, or "" for an empty tree.
func (t *Tree) Root() string {
	if len(t.nodes) == 0 {
		return ""
	}
	return t.nodes[0].ID
}

// Has reports whether the scene was reached.
func (t *Tree) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Parent returns the parent scene id. ok is false for the root and for
// scenes not in the tree.
func (t *Tree) Parent(id string) (parent string, ok bool) {
	i, found := t.byID[id]
	if !found || t.nodes[i].Parent < 0 {
		return "", false
	}
	return t.nodes[t.nodes[i].Parent].ID, true
}

// Children returns the child scene ids in visit order.
func (t *Tree) Children(id string) []string {
	i, ok := t.byID[id]
	if !ok {
		return nil
	}
	out := make([]string, len(t.nodes[i].Children))
	for j, c := range t.nodes[i].Children {
		out[j] = t.nodes[c].ID
	}
	return out
}

// IDs returns the scene ids in depth-first preorder.
func (t *Tree) IDs() []string {
	out := make([]string, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.ID
	}
	return out
}

// Edges returns the parent→child edges in preorder. No back or cross edges
// are included.
func (t *Tree) Edges() []Edge {
	edges := make([]Edge, 0, len(t.nodes))
	for _, n := range t.nodes {
		for _, c := range n.Children {
			edges = append(edges, Edge{From: n.ID, To: t.nodes[c].ID})
		}
	}
	return edges
}
