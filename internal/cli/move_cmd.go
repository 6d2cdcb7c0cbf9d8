package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/gantt"
)

var edgeKinds = map[string]domain.MoveKind{
	"move":   domain.MoveWhole,
	"start":  domain.MoveLeft,
	"end":    domain.MoveRight,
	"create": domain.MoveCreate,
}

func newMoveCmd(app *App, flags *globalFlags) *cobra.Command {
	var (
		days   int
		edge   string
		yes    bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "move <dataset> <task-id>",
		Short: "Shift a task's dates by whole days",
		Long: "Shift a task, or one of its edges, by whole days. The change is confirmed\n" +
			"interactively unless --yes is given, then written back to the dataset.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := edgeKinds[edge]
			if !ok {
				return fmt.Errorf("invalid --edge %q: use move, start, end or create", edge)
			}
			if !yes && app.Confirmer == nil && (app.IsInteractive == nil || !app.IsInteractive()) {
				return fmt.Errorf("confirmation needs a terminal; pass --yes to apply without asking")
			}

			s, err := app.openSession(args[0], flags, cmd.ErrOrStderr(), func(o *gantt.Options) {
				if app.Confirmer == nil {
					o.Confirmer = promptConfirmer{}
				}
			})
			if err != nil {
				return err
			}
			defer s.Close()

			bar := s.eng.BarByID(args[1])
			if bar == nil {
				return fmt.Errorf("task %s: %w", args[1], gantt.ErrUnknownBar)
			}
			p, out, err := s.eng.Nudge(bar.Key, kind, days)
			if err != nil {
				return err
			}
			if p != nil {
				if yes {
					out, err = s.eng.Resolve(p, true, nil)
				} else {
					out, err = s.eng.Commit(context.Background(), p)
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Outcome(out))

			switch out.Kind {
			case drag.OutcomeInvalid:
				return fmt.Errorf("task %s: the change would end before it starts", args[1])
			case drag.OutcomeAccepted:
				if dryRun {
					return nil
				}
				return s.save()
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 1, "Days to shift by (negative moves earlier)")
	cmd.Flags().StringVar(&edge, "edge", "move", "What to shift: move, start, end or create")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not write the dataset")
	return cmd
}
