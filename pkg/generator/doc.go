// Package generator produces stories from a short creative brief.
//
// A [Request] carries the brief: a description, a genre and the heroes are
// required; narrative style, mood, theme and conflict are optional hints.
// A [Generator] turns the brief into a [story.Story] in the same JSON schema
// that [story.ReadJSON] accepts.
//
// [Gemini] asks a Gemini model for application/json output and decodes it.
// [Cached] memoizes any generator through pkg/cache, keyed by the request
// and the model name, so repeating a brief does not call the model again.
package generator
