package generator

import (
	"strings"

	"github.com/matzehuels/storygraph/pkg/errors"
)

// Request is a creative brief for a story.
type Request struct {
	Description    string   `json:"description"`
	Genre          string   `json:"genre"`
	Heroes         []string `json:"heroes"`
	NarrativeStyle string   `json:"narrative_style,omitempty"`
	Mood           string   `json:"mood,omitempty"`
	Theme          string   `json:"theme,omitempty"`
	Conflict       string   `json:"conflict,omitempty"`
}

// ParseHeroes splits a comma-separated list of heroes, dropping blanks.
func ParseHeroes(s string) []string {
	var heroes []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			heroes = append(heroes, h)
		}
	}
	return heroes
}

// Normalize trims every field and drops blank heroes.
func (r Request) Normalize() Request {
	out := Request{
		Description:    strings.TrimSpace(r.Description),
		Genre:          strings.TrimSpace(r.Genre),
		NarrativeStyle: strings.TrimSpace(r.NarrativeStyle),
		Mood:           strings.TrimSpace(r.Mood),
		Theme:          strings.TrimSpace(r.Theme),
		Conflict:       strings.TrimSpace(r.Conflict),
	}
	for _, h := range r.Heroes {
		if h = strings.TrimSpace(h); h != "" {
			out.Heroes = append(out.Heroes, h)
		}
	}
	return out
}

// Validate reports a missing description, genre or hero list.
func (r Request) Validate() error {
	r = r.Normalize()
	var missing []string
	if r.Description == "" {
		missing = append(missing, "description")
	}
	if len(r.Heroes) == 0 {
		missing = append(missing, "heroes")
	}
	if r.Genre == "" {
		missing = append(missing, "genre")
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
