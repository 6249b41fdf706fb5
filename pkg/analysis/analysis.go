// Package analysis derives read-only statistics from a story graph.
//
// Everything here is a pure function of the story: counts, branching
// averages, reachability by full traversal and dangling choices. Results
// are cheap to recompute, so nothing is cached.
package analysis

import (
	"fmt"
	"strings"

	"github.com/matzehuels/storygraph/pkg/layout"
	"github.com/matzehuels/storygraph/pkg/story"
)

// Thresholds below which [Report.Recommendations] suggests changes.
const (
	MinEndings        = 3
	MinAverageChoices = 2.0
)

// Report is the structural summary of one story.
type Report struct {
	Title string `json:"title,omitempty"`
	Start string `json:"start,omitempty"`

	Scenes  int `json:"scenes"`
	Endings int `json:"endings"`
	Normal  int `json:"normal"`
	Choices int `json:"choices"`

	// AverageChoices and MaxChoices consider non-ending scenes only.
	AverageChoices float64 `json:"average_choices"`
	MaxChoices     int     `json:"max_choices"`

	// Depth is the number of breadth-first levels below and including the
	// start scene.
	Depth int `json:"depth"`

	Reachable   []string               `json:"reachable"`
	Unreachable []string               `json:"unreachable"`
	Dangling    []story.DanglingChoice `json:"dangling,omitempty"`
}

// Analyze computes the report for g. An empty story yields a zero report.
func Analyze(g *story.Graph) Report {
	r := Report{
		Title:       g.Title(),
		Start:       g.StartID(),
		Scenes:      g.Len(),
		Reachable:   []string{},
		Unreachable: []string{},
	}

	branching, total := 0, 0
	for _, sc := range g.Scenes() {
		n := len(sc.Choices)
		r.Choices += n
		if sc.IsEnding() {
			r.Endings++
			continue
		}
		branching++
		total += n
		r.MaxChoices = max(r.MaxChoices, n)
	}
	r.Normal = r.Scenes - r.Endings
	if branching > 0 {
		r.AverageChoices = float64(total) / float64(branching)
	}

	reached := Reachable(g)
	seen := make(map[string]bool, g.Len())
	for _, id := range g.IDs() {
		if seen[id] {
			continue
		}
		seen[id] = true
		if reached[id] {
			r.Reachable = append(r.Reachable, id)
		} else {
			r.Unreachable = append(r.Unreachable, id)
		}
	}

	levels, _ := layout.Levels(g)
	for _, l := range levels {
		r.Depth = max(r.Depth, l+1)
	}
	r.Dangling = g.Dangling()
	return r
}

// Reachable returns every scene id reachable from the start by following
// choices, start included. Unlike the layout tree it follows every choice.
func Reachable(g *story.Graph) map[string]bool {
	seen := make(map[string]bool)
	start := g.StartID()
	if start == "" {
		return seen
	}
	seen[start] = true
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.Targets(id) {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return seen
}

// Recommendations lists suggested improvements; nil means none.
func (r Report) Recommendations() []string {
	if r.Scenes == 0 {
		return nil
	}
	var out []string
	if r.Endings < MinEndings {
		out = append(out, "Add more endings for variety")
	}
	if r.AverageChoices < MinAverageChoices {
		out = append(out, "Add more branching")
	}
	if len(r.Unreachable) > 0 {
		out = append(out, fmt.Sprintf("Connect unreachable scenes: %s", strings.Join(r.Unreachable, ", ")))
	}
	return out
}

// Summary is a one-line digest of the counts.
func (r Report) Summary() string {
	if r.Scenes == 0 {
		return "Graph is empty"
	}
	return fmt.Sprintf("Scenes: %d | Endings: %d | Choices: %d | Avg choices: %.1f",
		r.Scenes, r.Endings, r.Choices, r.AverageChoices)
}
