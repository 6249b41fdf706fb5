package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/errors"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "view [story.json]",
		Short: "Explore a story graph interactively in the terminal",
		Long: `View opens the story canvas in the terminal. Use the mouse to hover,
click and drag cards and the wheel to zoom. Keys: arrows pan, +/- zoom,
0 fits the graph, tab walks the cards, space selects, HJKL moves the
focused card and l lists all scenes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), cmd.OutOrStdout(), args[0], noCache, plain)
		},
		ValidArgsFunction: completeStory,
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	cmd.Flags().BoolVar(&plain, "plain", false, "draw without colors")
	return cmd
}

func (c *CLI) runView(ctx context.Context, out io.Writer, input string, noCache, plain bool) error {
	if !stdinIsTerminal() {
		return errors.New(errors.ErrCodeUnsupported, "view needs an interactive terminal; use render instead")
	}

	cv, err := c.loadCanvas(ctx, input, noCache)
	if err != nil {
		return err
	}

	model := NewViewModel(cv)
	model.Styled = !plain

	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := prog.Run(); err != nil {
		return err
	}

	if sel := cv.Selected(); len(sel) > 0 {
		p := newPrinter(out)
		p.info("Selected %d scenes", len(sel))
		for _, id := range sel {
			p.detail("%s", id)
		}
	}
	return nil
}
