package story

import "strconv"

// DefaultDescription is shown for scenes supplied without a description.
const DefaultDescription = "No description"

// Choice is a labelled transition from one scene to another.
type Choice struct {
	Text        string `json:"text"`
	NextSceneID string `json:"next_scene_id,omitempty"`
}

// Scene is one unit of narrative content.
type Scene struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Choices     []Choice `json:"choices"`

	// Ending is the explicit terminal flag. Nil means "not specified".
	Ending *bool `json:"is_ending,omitempty"`
}

// IsEnding reports whether the scene is terminal: it is explicitly flagged
// as an ending or it has no choices. An explicit false does not turn a
// choiceless scene into a non-ending.
func (s Scene) IsEnding() bool {
	if s.Ending != nil && *s.Ending {
		return true
	}
	return len(s.Choices) == 0
}

// Text returns the description, or [DefaultDescription] when it is empty.
func (s Scene) Text() string {
	if s.Description == "" {
		return DefaultDescription
	}
	return s.Description
}

// Story is a complete branching story as produced by a generator.
type Story struct {
	Title      string  `json:"title"`
	StartScene string  `json:"start_scene,omitempty"`
	Scenes     []Scene `json:"scenes"`
}

// Bool returns a pointer to b, for populating [Scene.Ending].
func Bool(b bool) *bool { return &b }

// fallbackID is the id given to a scene supplied without one.
func fallbackID(index int) string {
	return "scene_" + strconv.Itoa(index)
}
