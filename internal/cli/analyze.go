package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/analysis"
	"github.com/matzehuels/storygraph/pkg/story"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "analyze [story.json]",
		Aliases: []string{"stats"},
		Short:   "Report scene counts, branching and unreachable scenes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := story.ImportJSON(args[0])
			if err != nil {
				return err
			}
			report := analysis.Analyze(story.NewGraph(s))
			if asJSON {
				return writeReportJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
		ValidArgsFunction: completeStory,
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

// reportJSON adds the derived fields to a report for machine output.
type reportJSON struct {
	analysis.Report
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

func writeReportJSON(w io.Writer, r analysis.Report) error {
	recs := r.Recommendations()
	if recs == nil {
		recs = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reportJSON{Report: r, Summary: r.Summary(), Recommendations: recs})
}

func printReport(w io.Writer, r analysis.Report) {
	title := r.Title
	if title == "" {
		title = "Untitled story"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	if r.Scenes == 0 {
		fmt.Fprintln(w, StyleDim.Render(r.Summary()))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).PaddingRight(1)
			}
			return StyleNumber
		}).
		Rows(
			[]string{"Start", r.Start},
			[]string{"Scenes", strconv.Itoa(r.Scenes)},
			[]string{"Endings", strconv.Itoa(r.Endings)},
			[]string{"Choices", strconv.Itoa(r.Choices)},
			[]string{"Avg choices", fmt.Sprintf("%.1f", r.AverageChoices)},
			[]string{"Max choices", strconv.Itoa(r.MaxChoices)},
			[]string{"Depth", strconv.Itoa(r.Depth)},
			[]string{"Reachable", fmt.Sprintf("%d/%d", len(r.Reachable), r.Scenes)},
		)
	fmt.Fprintln(w, t.Render())

	p := newPrinter(w)
	for _, d := range r.Dangling {
		target := d.Target
		if target == "" {
			target = "(empty)"
		}
		p.warning("%s choice %d %q points to %s", d.From, d.Choice+1, d.Text, target)
	}

	recs := r.Recommendations()
	if len(recs) == 0 {
		p.success("Story structure looks balanced")
		return
	}
	p.line("")
	p.line(StyleTitle.Render("Recommendations"))
	for _, rec := range recs {
		p.line("  " + StyleDim.Render(iconArrow) + " " + rec)
	}
}
