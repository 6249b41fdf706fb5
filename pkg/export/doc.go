// Package export writes stories and canvas renders to files or an
// S3-compatible object store.
//
// A destination is either a filesystem path or an s3://bucket/key URL.
// [Open] resolves it to a [Sink] and an object name; [Encode] produces the
// bytes for a [Format]:
//
//	data, _ := export.Encode(export.FormatJSON, g.Story(), c.Snapshot())
//	sink, name, _ := export.Open("s3://stories/cave.json", s3cfg)
//	loc, err := sink.Write(ctx, name, data, export.FormatJSON.ContentType())
//
// JSON exports are UTF-8 with two-space indentation and literal non-ASCII
// text, and read back with [story.ImportJSON] unchanged.
package export
