// Package story provides the scene graph model for branching interactive
// stories.
//
// A [Story] is an ordered list of scenes connected by player choices. The
// order of scenes determines their display number (1-based) but not their
// layout rank. [NewGraph] indexes a story for constant-time lookups and
// resolves the effective start scene.
//
// # Data Model
//
//   - [Scene]: one node of the story with a description and outgoing choices
//   - [Choice]: a labelled reference to another scene by id
//   - [Story]: title, optional start scene id, and the scene sequence
//
// A choice whose target is empty or names no scene is kept in the data but
// never produces an edge. A scene is an ending when it is explicitly flagged
// or has no choices (see [Scene.IsEnding]).
//
// # Start Scene
//
// The start scene is the one named by Story.StartScene when it exists, and
// the first scene in the sequence otherwise:
//
//	g := story.NewGraph(s)
//	start := g.StartID()
//
// # Serialization
//
// [ReadJSON], [WriteJSON], [ImportJSON] and [ExportJSON] read and write the
// generator's JSON schema. Output is UTF-8 with non-ASCII characters kept
// literally and two-space indentation, so an exported story re-imports to an
// equivalent value.
package story
