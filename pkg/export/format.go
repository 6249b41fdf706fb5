package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/render/raster"
	"github.com/matzehuels/storygraph/pkg/render/svg"
	"github.com/matzehuels/storygraph/pkg/story"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatSVG, FormatPNG}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want json, svg or png)", s)
}

// FormatFor infers the format from a file or key extension, defaulting to
// JSON.
func FormatFor(name string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(name), ".")); err == nil {
		return f
	}
	return FormatJSON
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/json; charset=utf-8"
	}
}

// Ext returns the file extension with a leading dot.
func (f Format) Ext() string { return "." + string(f) }

// EncodeLayout encodes the laid-out graph of snap: cards with centres and
// bounds, edges with endpoints, sides and label boxes, in canvas
// coordinates. Hover and selection flags are carried as they are.
func EncodeLayout(snap canvas.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "encode layout")
	}
	return buf.Bytes(), nil
}

// Encode produces the export bytes. JSON encodes the story; SVG and PNG
// render the snapshot.
func Encode(f Format, s story.Story, snap canvas.Snapshot) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := story.Marshal(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "encode story")
		}
		return data, nil
	case FormatSVG:
		return svg.RenderSVG(snap, svg.WithInteraction()), nil
	case FormatPNG:
		data, err := raster.RenderPNG(snap)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "render png")
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
}
