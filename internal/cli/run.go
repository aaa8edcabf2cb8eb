package cli

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/katalvlaran/wavecollapse/collapse"
	"github.com/katalvlaran/wavecollapse/render"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var frames bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collapse one grid and print it",
		Long: `run collapses a single grid, retrying whole attempts on contradiction,
and prints the final grid followed by run statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := a.loadLibrary()
			if err != nil {
				return err
			}
			sink, err := a.newMetricsSink()
			if err != nil {
				return err
			}
			seed := a.seed()

			r, err := collapse.NewRunner(lib, a.cfg.Grid.Width, a.cfg.Grid.Height, sink.options(a.runOptions(seed))...)
			if err != nil {
				return err
			}
			res, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := sink.flush(a.logger); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Succeeded {
				return fmt.Errorf("no collapse after %d attempts (average failed step %.1f)",
					res.Attempts, res.AverageFailedSteps)
			}

			rd := render.New(r.Library(), render.WithRenderer(lipgloss.NewRenderer(out)))
			if frames {
				fmt.Fprintln(out, rd.History(res.History))
			} else {
				final, _ := res.History.Last()
				fmt.Fprintln(out, rd.Element(final))
			}
			fmt.Fprintf(out, "\nrun %s seed %d\n", res.RunID, seed)
			fmt.Fprintf(out, "attempts %d, contradictions %d, steps %d, average failed step %.1f\n",
				res.Attempts, res.Contradictions, res.Steps, res.AverageFailedSteps)
			fmt.Fprintln(out, rd.Legend())
			for i, p := range r.Library().Patterns() {
				a.logger.Debug("pattern count", slog.String("pattern", p.Name), slog.Int("cells", res.PatternCounts[i]))
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&frames, "frames", false, "print every snapshot instead of the final grid")

	return cmd
}
