package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/export"
	"github.com/matzehuels/storygraph/pkg/render/raster"
	"github.com/matzehuels/storygraph/pkg/render/svg"
	"github.com/matzehuels/storygraph/pkg/story"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path (several)
	formats     []string // svg, png, json
	width       float64  // viewport width in pixels
	height      float64  // viewport height in pixels
	viewport    bool     // render the fitted viewport instead of the whole graph
	scale       float64  // PNG pixel density
	interactive bool     // embed hover styles in SVG
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1, interactive: true}

	cmd := &cobra.Command{
		Use:   "render [story.json]",
		Short: "Render a story graph to SVG or PNG",
		Long: `Render lays out a story and draws every scene as a card, with arrows
for choices. The hierarchical layout falls back to a breadth-first grid
when Graphviz is unavailable. The json format writes the positioned
layout: cards with centres and bounds, edges with their geometry.`,
		Example: `  storygraph render cave.json
  storygraph render cave.json -f svg,png -o out/cave
  storygraph render cave.json -f png --scale 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
		ValidArgsFunction: completeStory,
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json layout (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.viewport, "viewport", false, "render the fitted viewport instead of the whole graph")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", opts.interactive, "embed hover styles in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validateFormats checks that every requested format can be written.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := export.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, out io.Writer, input string, opts *renderOpts) error {
	prog := newProgress(c.Logger)

	cv, err := c.loadCanvas(ctx, input, opts.noCache)
	if err != nil {
		return err
	}
	if opts.width > 0 || opts.height > 0 {
		view := cv.Viewport()
		cv.Resize(orDefault(opts.width, view.Width), orDefault(opts.height, view.Height))
		cv.ResetView()
	}

	snap := cv.Snapshot()
	prog.done(fmt.Sprintf("Laid out %d scenes", len(snap.Cards)))

	paths := outputPaths(input, opts.output, opts.formats)
	for i, f := range opts.formats {
		data, err := renderFormat(export.Format(f), cv.Story(), snap, opts)
		if err != nil {
			return err
		}
		if err := writeFile(paths[i], data); err != nil {
			return err
		}
	}

	p := newPrinter(out)
	p.success("Rendered %s", filepath.Base(input))
	p.stats(len(snap.Cards), len(snap.Edges), snap.Source)
	for _, path := range paths {
		p.file(path)
	}
	return nil
}

func renderFormat(f export.Format, s story.Story, snap canvas.Snapshot, opts *renderOpts) ([]byte, error) {
	switch f {
	case export.FormatSVG:
		var svgOpts []svg.SVGOption
		if opts.interactive {
			svgOpts = append(svgOpts, svg.WithInteraction())
		}
		if opts.viewport {
			svgOpts = append(svgOpts, svg.WithViewport())
		}
		return svg.RenderSVG(snap, svgOpts...), nil
	case export.FormatPNG:
		pngOpts := []raster.Option{raster.WithScale(opts.scale)}
		if opts.viewport {
			pngOpts = append(pngOpts, raster.WithViewport())
		}
		return raster.RenderPNG(snap, pngOpts...)
	case export.FormatJSON:
		return export.EncodeLayout(snap)
	default:
		return export.Encode(f, s, snap)
	}
}

// outputPaths derives one path per format. A single format with -o writes
// exactly there; otherwise -o (or the input name) is a base path.
func outputPaths(input, output string, formats []string) []string {
	if len(formats) == 1 && output != "" {
		return []string{output}
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	paths := make([]string, len(formats))
	for i, f := range formats {
		path := base + export.Format(f).Ext()
		// Rendering JSON next to its own input would overwrite it.
		if path == input {
			path = base + ".out" + export.Format(f).Ext()
		}
		paths[i] = path
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
