package story

import (
	"github.com/matzehuels/storygraph/pkg/errors"
)

// Link is a resolvable choice: a transition between two distinct scenes
// that both exist in the story.
type Link struct {
	From   string // source scene id
	To     string // target scene id
	Text   string // choice text
	Choice int    // index of the choice within the source scene
}

// DanglingChoice is a choice whose target is empty or names no scene.
type DanglingChoice struct {
	From   string `json:"from"`
	Choice int    `json:"choice"`
	Text   string `json:"text"`
	Target string `json:"target,omitempty"`
}

// Graph is a read-only index over a [Story].
//
// Scene ids are resolved once: a scene without an id is addressed as
// "scene_<index>". When two scenes share an id, lookups resolve to the first.
// A Graph is safe for concurrent reads.
type Graph struct {
	story Story
	ids   []string
	index map[string]int
	start string
}

// NewGraph indexes s. The story is not copied deeply; callers must not
// mutate it afterwards.
func NewGraph(s Story) *Graph {
	g := &Graph{
		story: s,
		ids:   make([]string, len(s.Scenes)),
		index: make(map[string]int, len(s.Scenes)),
	}
	for i, sc := range s.Scenes {
		id := sc.ID
		if id == "" {
			id = fallbackID(i)
		}
		g.ids[i] = id
		if _, dup := g.index[id]; !dup {
			g.index[id] = i
		}
	}

	switch {
	case len(s.Scenes) == 0:
	case s.StartScene != "" && g.Has(s.StartScene):
		g.start = s.StartScene
	default:
		g.start = g.ids[0]
	}
	return g
}

// Story returns the underlying story value.
func (g *Graph) Story() Story { return g.story }

// Title returns the story title.
func (g *Graph) Title() string { return g.story.Title }

// Len returns the number of scenes.
func (g *Graph) Len() int { return len(g.story.Scenes) }

// Empty reports whether the story has no scenes (the "no data" state).
func (g *Graph) Empty() bool { return len(g.story.Scenes) == 0 }

// Scenes returns the scenes in input order.
func (g *Graph) Scenes() []Scene { return g.story.Scenes }

// IDs returns the effective scene ids in input order.
func (g *Graph) IDs() []string { return g.ids }

// ID returns the effective id of the scene at index i.
func (g *Graph) ID(i int) string { return g.ids[i] }

// Has reports whether a scene with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Scene looks up a scene by id.
func (g *Graph) Scene(id string) (Scene, bool) {
	i, ok := g.index[id]
	if !ok {
		return Scene{}, false
	}
	return g.story.Scenes[i], true
}

// Index returns the input position of the scene with the given id, or -1.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Number returns the 1-based display number of a scene, or 0 if unknown.
func (g *Graph) Number(id string) int {
	return g.Index(id) + 1
}

// StartID returns the effective start scene id, or "" for an empty story.
func (g *Graph) StartID() string { return g.start }

// Referenced returns the set of all non-empty choice targets across the
// story, including ones that name no scene.
func (g *Graph) Referenced() map[string]bool {
	refs := make(map[string]bool)
	for _, sc := range g.story.Scenes {
		for _, c := range sc.Choices {
			if c.NextSceneID != "" {
				refs[c.NextSceneID] = true
			}
		}
	}
	return refs
}

// Targets returns the resolvable choice targets of a scene in choice order.
// Duplicates and self references are kept.
func (g *Graph) Targets(id string) []string {
	sc, ok := g.Scene(id)
	if !ok {
		return nil
	}
	var out []string
	for _, c := range sc.Choices {
		if g.Has(c.NextSceneID) {
			out = append(out, c.NextSceneID)
		}
	}
	return out
}

// Links returns one [Link] per choice that connects two distinct existing
// scenes. Self references and dangling targets are omitted.
func (g *Graph) Links() []Link {
	var links []Link
	for i, sc := range g.story.Scenes {
		from := g.ids[i]
		for j, c := range sc.Choices {
			if c.NextSceneID == from || !g.Has(c.NextSceneID) {
				continue
			}
			links = append(links, Link{From: from, To: c.NextSceneID, Text: c.Text, Choice: j})
		}
	}
	return links
}

// Dangling returns the choices whose target is empty or names no scene.
func (g *Graph) Dangling() []DanglingChoice {
	var out []DanglingChoice
	for i, sc := range g.story.Scenes {
		for j, c := range sc.Choices {
			if g.Has(c.NextSceneID) {
				continue
			}
			out = append(out, DanglingChoice{From: g.ids[i], Choice: j, Text: c.Text, Target: c.NextSceneID})
		}
	}
	return out
}

// Validate reports structural problems that loading tolerates: scenes
// without ids, duplicate ids, an unresolved start scene and invalid ids.
// The returned errors carry [errors.ErrCodeInvalidStory].
func (g *Graph) Validate() []error {
	var problems []error
	seen := make(map[string]bool, len(g.ids))
	for i, sc := range g.story.Scenes {
		if sc.ID == "" {
			problems = append(problems, errors.New(errors.ErrCodeInvalidStory,
				"scene %d has no id, using %q", i+1, g.ids[i]))
		} else if err := errors.ValidateSceneID(sc.ID); err != nil {
			problems = append(problems, err)
		}
		if seen[g.ids[i]] {
			problems = append(problems, errors.New(errors.ErrCodeInvalidStory,
				"duplicate scene id %q at position %d", g.ids[i], i+1))
		}
		seen[g.ids[i]] = true
	}
	if s := g.story.StartScene; s != "" && !g.Has(s) {
		problems = append(problems, errors.New(errors.ErrCodeInvalidStory,
			"start scene %q not found, using %q", s, g.start))
	}
	return problems
}
