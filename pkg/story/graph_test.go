package story

import (
	"slices"
	"testing"

	"github.com/matzehuels/storygraph/pkg/errors"
)

func choice(text, to string) Choice { return Choice{Text: text, NextSceneID: to} }

func TestNewGraphStart(t *testing.T) {
	tests := []struct {
		name  string
		story Story
		want  string
	}{
		{
			name:  "empty",
			story: Story{},
			want:  "",
		},
		{
			name:  "explicit start",
			story: Story{StartScene: "b", Scenes: []Scene{{ID: "a"}, {ID: "b"}}},
			want:  "b",
		},
		{
			name:  "missing start falls back to first",
			story: Story{Scenes: []Scene{{ID: "a"}, {ID: "b"}}},
			want:  "a",
		},
		{
			name:  "unknown start falls back to first",
			story: Story{StartScene: "zzz", Scenes: []Scene{{ID: "a"}, {ID: "b"}}},
			want:  "a",
		},
		{
			name:  "first scene without id",
			story: Story{Scenes: []Scene{{Description: "x"}, {ID: "b"}}},
			want:  "scene_0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph(tt.story)
			if got := g.StartID(); got != tt.want {
				t.Errorf("StartID() = %q, want %q", got, tt.want)
			}
			if g.Empty() != (len(tt.story.Scenes) == 0) {
				t.Errorf("Empty() = %v, want %v", g.Empty(), len(tt.story.Scenes) == 0)
			}
		})
	}
}

func TestGraphLookup(t *testing.T) {
	g := NewGraph(Story{Scenes: []Scene{
		{ID: "a", Choices: []Choice{choice("go", "b")}},
		{ID: "b"},
		{ID: "a", Description: "shadowed"},
	}})

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if n := g.Number("b"); n != 2 {
		t.Errorf("Number(b) = %d, want 2", n)
	}
	if n := g.Number("missing"); n != 0 {
		t.Errorf("Number(missing) = %d, want 0", n)
	}
	sc, ok := g.Scene("a")
	if !ok || sc.Description == "shadowed" {
		t.Errorf("Scene(a) should resolve to the first occurrence, got %+v", sc)
	}
	if _, ok := g.Scene("c"); ok {
		t.Error("Scene(c) should not exist")
	}
}

func TestReferencedAndTargets(t *testing.T) {
	g := NewGraph(Story{Scenes: []Scene{
		{ID: "a", Choices: []Choice{choice("1", "b"), choice("2", "ghost"), choice("3", ""), choice("4", "a")}},
		{ID: "b", Choices: []Choice{choice("back", "a")}},
	}})

	refs := g.Referenced()
	for _, id := range []string{"a", "b", "ghost"} {
		if !refs[id] {
			t.Errorf("Referenced() missing %q", id)
		}
	}
	if refs[""] {
		t.Error("Referenced() should not contain the empty id")
	}

	if got := g.Targets("a"); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Targets(a) = %v, want [b a]", got)
	}
}

func TestLinksSkipSelfAndDangling(t *testing.T) {
	g := NewGraph(Story{Scenes: []Scene{
		{ID: "a", Choices: []Choice{choice("stay", "a"), choice("go", "b"), choice("lost", "nowhere"), choice("blank", "")}},
		{ID: "b"},
	}})

	links := g.Links()
	if len(links) != 1 {
		t.Fatalf("Links() = %v, want 1 link", links)
	}
	if l := links[0]; l.From != "a" || l.To != "b" || l.Text != "go" || l.Choice != 1 {
		t.Errorf("Links()[0] = %+v", l)
	}

	dangling := g.Dangling()
	if len(dangling) != 2 {
		t.Fatalf("Dangling() = %v, want 2", dangling)
	}
	if dangling[0].Target != "nowhere" || dangling[1].Target != "" {
		t.Errorf("Dangling() = %+v", dangling)
	}
}

func TestIsEnding(t *testing.T) {
	tests := []struct {
		name  string
		scene Scene
		want  bool
	}{
		{"no choices", Scene{}, true},
		{"has choices", Scene{Choices: []Choice{choice("x", "y")}}, false},
		{"explicit true with choices", Scene{Ending: Bool(true), Choices: []Choice{choice("x", "y")}}, true},
		{"explicit false without choices", Scene{Ending: Bool(false)}, true},
		{"explicit false with choices", Scene{Ending: Bool(false), Choices: []Choice{choice("x", "y")}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scene.IsEnding(); got != tt.want {
				t.Errorf("IsEnding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := NewGraph(Story{
		StartScene: "nope",
		Scenes:     []Scene{{ID: "a"}, {}, {ID: "a"}},
	})

	problems := g.Validate()
	if len(problems) != 3 {
		t.Fatalf("Validate() = %v, want 3 problems", problems)
	}
	for _, p := range problems {
		if !errors.Is(p, errors.ErrCodeInvalidStory) {
			t.Errorf("problem %v has code %v", p, errors.GetCode(p))
		}
	}

	if problems := NewGraph(Story{Scenes: []Scene{{ID: "a"}}}).Validate(); len(problems) != 0 {
		t.Errorf("Validate() on a clean story = %v", problems)
	}
}
