package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a story from r.
//
// The input is the generator's schema:
//
//	{
//	  "title": "The Cave",
//	  "start_scene": "a",
//	  "scenes": [
//	    {"id": "a", "description": "...", "choices": [{"text": "go", "next_scene_id": "b"}]},
//	    {"id": "b", "description": "...", "choices": [], "is_ending": true}
//	  ]
//	}
//
// Missing fields decode to their zero values; structural problems are left
// for [Graph.Validate]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Story, error) {
	var s Story
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Story{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}

// WriteJSON encodes s to w with two-space indentation. Non-ASCII characters
// and HTML-sensitive characters are written literally.
func WriteJSON(s Story, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the [WriteJSON] encoding of s.
func Marshal(s Story) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a story from data.
func Unmarshal(data []byte) (Story, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a story from the JSON file at path.
func ImportJSON(path string) (Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return Story{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s Story, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
