package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/watch"
)

func runProgram(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
}

func newViewCmd(app *App, flags *globalFlags) *cobra.Command {
	var (
		watchFile bool
		readOnly  bool
		noState   bool
	)
	cmd := &cobra.Command{
		Use:   "view <dataset>",
		Short: "Open the interactive chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return fmt.Errorf("view needs an interactive terminal; use 'gantry frame' instead")
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := &drag.ManualScheduler{}
			changes := make(chan struct{}, 1)
			s, err := app.openSession(args[0], flags, cmd.ErrOrStderr(), func(o *gantt.Options) {
				o.Scheduler = sched
				o.OnChange = func() {
					select {
					case changes <- struct{}{}:
					default:
					}
				}
			})
			if err != nil {
				return err
			}
			defer s.Close()

			var store *viewStore
			if !noState {
				if store, err = app.openViewStore(); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: "+err.Error()))
				}
				defer store.Close()
			}
			if err := store.restore(ctx, s, cmd.Flags().Changed("sight")); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: restoring view: "+err.Error()))
			}

			var events <-chan watch.Event
			if watchFile {
				if events, err = watch.File(ctx, s.path, watch.DefaultDelay); err != nil {
					return err
				}
			}

			run := app.RunProgram
			if run == nil {
				run = runProgram
			}
			final, err := run(newChartModel(s, sched, changes, events, !readOnly))
			if err != nil {
				return fmt.Errorf("running chart: %w", err)
			}
			if err := store.capture(ctx, s); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: saving view: "+err.Error()))
			}
			if m, ok := final.(chartModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Reload when the dataset file changes")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Do not write confirmed changes to the dataset")
	cmd.Flags().BoolVar(&noState, "no-state", false, "Neither restore nor remember the view")
	return cmd
}
