package story_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/storygraph/pkg/story"
)

func ExampleNewGraph() {
	// A two-scene story: "a" leads to the ending "b"
	s := story.Story{
		StartScene: "a",
		Scenes: []story.Scene{
			{ID: "a", Choices: []story.Choice{{Text: "go", NextSceneID: "b"}}},
			{ID: "b", Choices: []story.Choice{}},
		},
	}
	g := story.NewGraph(s)

	fmt.Println("Start:", g.StartID())
	fmt.Println("Links:", len(g.Links()))
	sc, _ := g.Scene("b")
	fmt.Println("b is ending:", sc.IsEnding())
	// Output:
	// Start: a
	// Links: 1
	// b is ending: true
}

func ExampleReadJSON() {
	in := `{"title": "Demo", "scenes": [{"id": "intro", "choices": []}]}`
	s, err := story.ReadJSON(strings.NewReader(in))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(s.Title, len(s.Scenes), story.NewGraph(s).StartID())
	// Output:
	// Demo 1 intro
}
