package layout

import (
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/storygraph/pkg/story"
)

func graphOf(start string, adj ...[]string) *story.Graph {
	// adj entries are {id, target...}
	s := story.Story{StartScene: start}
	for _, a := range adj {
		sc := story.Scene{ID: a[0], Choices: []story.Choice{}}
		for _, to := range a[1:] {
			sc.Choices = append(sc.Choices, story.Choice{Text: a[0] + "->" + to, NextSceneID: to})
		}
		s.Scenes = append(s.Scenes, sc)
	}
	return story.NewGraph(s)
}

func TestBuildTree(t *testing.T) {
	tests := []struct {
		name      string
		graph     *story.Graph
		wantIDs   []string
		wantEdges []Edge
	}{
		{
			name:    "empty",
			graph:   graphOf(""),
			wantIDs: []string{},
		},
		{
			name:      "chain",
			graph:     graphOf("a", []string{"a", "b"}, []string{"b", "c"}, []string{"c"}),
			wantIDs:   []string{"a", "b", "c"},
			wantEdges: []Edge{{"a", "b"}, {"b", "c"}},
		},
		{
			name:      "cycle is broken",
			graph:     graphOf("a", []string{"a", "b"}, []string{"b", "a"}),
			wantIDs:   []string{"a", "b"},
			wantEdges: []Edge{{"a", "b"}},
		},
		{
			name: "diamond: first depth-first path wins",
			graph: graphOf("a",
				[]string{"a", "b", "c"},
				[]string{"b", "d"},
				[]string{"c", "d"},
				[]string{"d"}),
			wantIDs:   []string{"a", "b", "d", "c"},
			wantEdges: []Edge{{"a", "b"}, {"a", "c"}, {"b", "d"}},
		},
		{
			name:      "self loop and dangling are ignored",
			graph:     graphOf("a", []string{"a", "a", "ghost", "b"}, []string{"b"}),
			wantIDs:   []string{"a", "b"},
			wantEdges: []Edge{{"a", "b"}},
		},
		{
			name:      "unreachable scene is absent",
			graph:     graphOf("a", []string{"a", "b"}, []string{"b"}, []string{"orphan", "a"}),
			wantIDs:   []string{"a", "b"},
			wantEdges: []Edge{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := BuildTree(tt.graph)
			if got := tree.IDs(); !slices.Equal(got, tt.wantIDs) {
				t.Errorf("IDs() = %v, want %v", got, tt.wantIDs)
			}
			if got := tree.Edges(); !slices.Equal(got, tt.wantEdges) && !(len(got) == 0 && len(tt.wantEdges) == 0) {
				t.Errorf("Edges() = %v, want %v", got, tt.wantEdges)
			}
		})
	}
}

func TestTreeNavigation(t *testing.T) {
	tree := BuildTree(graphOf("a", []string{"a", "b", "c"}, []string{"b"}, []string{"c"}))

	if tree.Root() != "a" {
		t.Errorf("Root() = %q, want a", tree.Root())
	}
	if p, ok := tree.Parent("c"); !ok || p != "a" {
		t.Errorf("Parent(c) = %q, %v", p, ok)
	}
	if _, ok := tree.Parent("a"); ok {
		t.Error("root should have no parent")
	}
	if got := tree.Children("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Children(a) = %v", got)
	}
	if tree.Children("zzz") != nil {
		t.Error("Children of unknown scene should be nil")
	}
}

func TestBuildTreeDeepChain(t *testing.T) {
	const n = 5000
	adj := make([][]string, n)
	for i := range adj {
		adj[i] = []string{"s" + strconv.Itoa(i)}
		if i < n-1 {
			adj[i] = append(adj[i], "s"+strconv.Itoa(i+1))
		}
	}
	tree := BuildTree(graphOf("s0", adj...))
	if tree.Len() != n {
		t.Errorf("Len() = %d, want %d", tree.Len(), n)
	}
	last := "s" + strconv.Itoa(n-1)
	if p, ok := tree.Parent(last); !ok || p != "s"+strconv.Itoa(n-2) {
		t.Errorf("Parent(%s) = %q, %v", last, p, ok)
	}
}

func TestBuildTreeBacktracks(t *testing.T) {
	// a → b → c, then back up to a → d; c → d is reached first.
	tree := BuildTree(graphOf("a",
		[]string{"a", "b", "d"},
		[]string{"b", "c"},
		[]string{"c", "d", "a"},
		[]string{"d"}))

	if got := tree.IDs(); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("IDs() = %v", got)
	}
	if p, _ := tree.Parent("d"); p != "c" {
		t.Errorf("Parent(d) = %q, want c", p)
	}
	if got := tree.Children("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Children(a) = %v, want [b]", got)
	}
}
