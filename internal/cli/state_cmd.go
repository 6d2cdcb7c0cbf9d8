package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
)

func newStateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage remembered chart views",
	}
	cmd.AddCommand(newStateListCmd(app), newStateClearCmd(app))
	return cmd
}

func newStateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remembered views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			states, err := store.repo.List(context.Background())
			if err != nil {
				return err
			}
			if len(states) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No remembered views."))
				return nil
			}
			now := time.Now()
			if app.Now != nil {
				now = app.Now()
			}
			rows := make([][]string, 0, len(states))
			for _, st := range states {
				pan := "-"
				if st.PanDate != nil {
					pan = st.PanDate.Format(domain.DayLayout)
				}
				rows = append(rows, []string{
					st.Dataset,
					string(st.Sight),
					pan,
					fmt.Sprintf("%d", len(st.Collapsed)),
					formatter.RelativeDateFrom(st.UpdatedAt, now),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"DATASET", "SIGHT", "PAN", "COLLAPSED", "UPDATED"}, rows))
			return nil
		},
	}
}

func newStateClearCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear [dataset]",
		Short: "Forget the remembered view of a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("name a dataset or pass --all")
			}
			store, err := requireStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			var targets []string
			if all {
				states, err := store.repo.List(ctx)
				if err != nil {
					return err
				}
				for _, st := range states {
					targets = append(targets, st.Dataset)
				}
			} else {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving %s: %w", args[0], err)
				}
				targets = []string{abs}
			}
			for _, ds := range targets {
				if err := store.repo.Delete(ctx, ds); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d view(s).\n", len(targets))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Forget every remembered view")
	return cmd
}

func requireStore(app *App) (*viewStore, error) {
	store, err := app.openViewStore()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("view store is disabled (set GANTRY_DB_PATH)")
	}
	return store, nil
}
