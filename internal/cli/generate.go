package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/analysis"
	"github.com/matzehuels/storygraph/pkg/generator"
	"github.com/matzehuels/storygraph/pkg/story"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	req     generator.Request
	heroes  string
	output  string
	render  bool
	noCache bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new interactive story from a brief",
		Long: `Generate asks a language model for a branching story matching the
brief. Description, heroes and genre are required; the rest are hints.
Identical briefs are answered from the cache.`,
		Example: `  storygraph generate -d "A lighthouse keeper finds a map" --heroes "Mara, Old Tom" -g mystery -o lighthouse.json
  storygraph generate -d "..." --heroes Ana -g fantasy --mood hopeful --render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.req.Heroes = generator.ParseHeroes(opts.heroes)
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.req.Description, "description", "d", "", "what the story is about (required)")
	f.StringVar(&opts.heroes, "heroes", "", "comma-separated hero names (required)")
	f.StringVarP(&opts.req.Genre, "genre", "g", "", "genre, e.g. fantasy or mystery (required)")
	f.StringVar(&opts.req.NarrativeStyle, "style", "", "narrative style")
	f.StringVar(&opts.req.Mood, "mood", "", "overall mood")
	f.StringVar(&opts.req.Theme, "theme", "", "central theme")
	f.StringVar(&opts.req.Conflict, "conflict", "", "main conflict")
	f.StringVarP(&opts.output, "output", "o", "story.json", "story JSON output path")
	f.BoolVar(&opts.render, "render", false, "also render an SVG next to the story")
	f.BoolVar(&opts.noCache, "no-cache", false, "always ask the model")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, out io.Writer, opts *generateOpts) error {
	if err := opts.req.Validate(); err != nil {
		return err
	}

	store, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	gen, err := c.newGenerator(ctx, store)
	if err != nil {
		return err
	}

	if t := c.config().Generator.Timeout.Duration; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	p := newPrinter(out)
	spin := newSpinnerWithContext(ctx, "Generating story with "+gen.Name())
	spin.Start()
	s, err := gen.Generate(ctx, opts.req)
	if err != nil {
		spin.StopWithError(p, "Generation failed")
		return err
	}
	spin.Stop()

	if err := story.ExportJSON(s, opts.output); err != nil {
		return err
	}

	report := analysis.Analyze(story.NewGraph(s))
	p.success("Generated %q", s.Title)
	p.detail("%s", report.Summary())
	p.file(opts.output)

	if opts.render {
		ropts := renderOpts{formats: []string{"svg"}, scale: 1, interactive: true, noCache: opts.noCache}
		if err := c.runRender(ctx, out, opts.output, &ropts); err != nil {
			return fmt.Errorf("render generated story: %w", err)
		}
		return nil
	}

	p.nextStep("Explore it", appName+" view "+opts.output)
	return nil
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
