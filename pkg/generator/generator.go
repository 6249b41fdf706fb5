package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/story"
)

// Generator writes a story for a brief.
type Generator interface {
	// Name identifies the backing model; it is part of cache keys.
	Name() string
	Generate(ctx context.Context, req Request) (story.Story, error)
}

const instructions = `You are writing a branching interactive story.
Reply with a single JSON object and nothing else, using this schema:

{
  "title": string,
  "start_scene": string,             // id of the first scene
  "scenes": [
    {
      "id": string,                  // unique, short, snake_case
      "description": string,         // what happens in this scene
      "choices": [
        {"text": string, "next_scene_id": string}
      ],
      "is_ending": boolean           // true for endings, which have no choices
    }
  ]
}

Rules:
- Every next_scene_id must be the id of a scene in "scenes".
- Give the story at least 3 distinct endings.
- Most non-ending scenes should offer 2 or 3 choices.
- Every scene must be reachable from start_scene.
- Write in the language of the description.`

// Prompt renders the model prompt for req.
func Prompt(req Request) string {
	req = req.Normalize()
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n[BRIEF]\n")
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Genre: %s\n", req.Genre)
	fmt.Fprintf(&b, "Heroes: %s\n", strings.Join(req.Heroes, ", "))
	for _, kv := range [][2]string{
		{"Narrative style", req.NarrativeStyle},
		{"Mood", req.Mood},
		{"Theme", req.Theme},
		{"Conflict", req.Conflict},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	return b.String()
}

// Decode parses a model reply into a story. Markdown code fences around the
// JSON are tolerated. A reply without scenes is rejected.
func Decode(reply []byte) (story.Story, error) {
	data := bytes.TrimSpace(reply)
	if bytes.HasPrefix(data, []byte("```")) {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			data = data[i+1:]
		}
		data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("```"))
	}

	var s story.Story
	if err := json.Unmarshal(data, &s); err != nil {
		return story.Story{}, errors.Wrap(errors.ErrCodeGenerateFailed, err, "model reply is not a story")
	}
	if len(s.Scenes) == 0 {
		return story.Story{}, errors.New(errors.ErrCodeGenerateFailed, "model reply has no scenes")
	}
	return s, nil
}
