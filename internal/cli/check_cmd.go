package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/importer"
)

func newCheckCmd(app *App, flags *globalFlags) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "check <dataset>",
		Short: "Validate a dataset and print its task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			schema, err := importer.LoadDatasetSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateDatasetSchema(schema); len(errs) > 0 {
				fmt.Fprintln(out, formatter.Header("Problems"))
				for _, e := range errs {
					fmt.Fprintln(out, formatter.StyleRed.Render("✖ ")+e.Error())
				}
				return fmt.Errorf("%s: %d problem(s)", args[0], len(errs))
			}

			s, err := app.openSession(args[0], flags, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if !quiet {
				fmt.Fprintln(out, formatter.Header("Tasks"))
				fmt.Fprint(out, formatter.RenderTree(treeItems(s.eng.Roots())))
				fmt.Fprintln(out)
			}
			for _, w := range s.warnings() {
				fmt.Fprintln(out, formatter.StyleYellow.Render("! ")+w)
			}
			fmt.Fprintf(out, "%s %d task(s), %d dependency link(s)\n",
				formatter.StyleGreen.Render("✔"), hierarchy.Count(s.eng.Roots()), len(s.ds.Dependencies))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")
	return cmd
}

// treeItems lists every item, collapsed or not, in display order.
func treeItems(roots []*hierarchy.Item) []formatter.TreeItem {
	var items []formatter.TreeItem
	hierarchy.Walk(roots, func(it *hierarchy.Item) bool {
		ti := formatter.TreeItem{Title: it.Record.Name(), Level: it.Depth, IsLast: isLast(it)}
		switch {
		case it.Disabled:
			ti.Status = formatter.TreeDisabled
		case it.Group && it.Collapsed:
			ti.Status = formatter.TreeCollapsed
		case it.Group:
			ti.Status = formatter.TreeGroup
		case !it.Valid():
			ti.Status = formatter.TreeUnscheduled
		}
		if it.Valid() {
			ti.Detail = it.Start.Format(domain.DayLayout) + " → " + it.End.Format(domain.DayLayout)
		}
		items = append(items, ti)
		return true
	})
	return items
}

func isLast(it *hierarchy.Item) bool {
	if it.Parent == nil {
		return false
	}
	siblings := it.Parent.Children
	return len(siblings) > 0 && siblings[len(siblings)-1] == it
}
