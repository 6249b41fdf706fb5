package layout_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storygraph/pkg/layout"
	"github.com/matzehuels/storygraph/pkg/story"
)

func ExampleLayouter_Compute() {
	g := story.NewGraph(story.Story{Scenes: []story.Scene{
		{ID: "start", Choices: []story.Choice{
			{Text: "Enter the cave", NextSceneID: "cave"},
			{Text: "Walk into the forest", NextSceneID: "forest"},
		}},
		{ID: "cave"},
		{ID: "forest"},
	}})

	// A nil engine always takes the breadth-first fallback.
	l := layout.New(nil, log.New(io.Discard))
	res := l.Compute(context.Background(), g)

	fmt.Println(res.Source)
	for _, id := range []string{"start", "cave", "forest"} {
		fmt.Println(id, res.Positions[id])
	}
	// Output:
	// fallback
	// start {0 0}
	// cave {-175 250}
	// forest {175 250}
}
