package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/export"
)

// exportCommand creates the export command. Unlike render it writes one
// artifact to a file or an s3:// URL.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [story.json] [dest]",
		Short: "Export a story as JSON, SVG or PNG to a file or S3",
		Long: `Export writes a story to a destination. Destinations starting with
s3:// upload to the configured S3-compatible store; anything else is a
local path. The format defaults to the destination's extension.`,
		Example: `  storygraph export cave.json cave.svg
  storygraph export cave.json s3://stories/cave.json
  storygraph export cave.json s3://stories/cave --format png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], format, noCache)
		},
		ValidArgsFunction: completeStory,
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json, svg or png (default from the destination extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, out io.Writer, input, dest, format string, noCache bool) error {
	f := export.FormatFor(dest)
	if format != "" {
		var err error
		if f, err = export.ParseFormat(format); err != nil {
			return err
		}
	}

	sink, name, err := export.Open(dest, c.s3Config())
	if err != nil {
		return err
	}

	cv, err := c.loadCanvas(ctx, input, noCache)
	if err != nil {
		return err
	}
	snap := cv.Snapshot()
	data, err := export.Encode(f, cv.Story(), snap)
	if err != nil {
		return err
	}

	p := newPrinter(out)
	spin := newSpinnerWithContext(ctx, "Writing "+dest)
	spin.Start()
	loc, err := sink.Write(ctx, name, data, f.ContentType())
	if err != nil {
		spin.StopWithError(p, "Export failed")
		return err
	}
	spin.StopWithSuccess(p, "Exported "+string(f))
	p.stats(len(snap.Cards), len(snap.Edges), snap.Source)
	p.file(loc)
	return nil
}
