package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/export"
)

func newExportCmd(app *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the chart to other formats",
	}
	cmd.AddCommand(newExportSVGCmd(app, flags))
	return cmd
}

func newExportSVGCmd(app *App, flags *globalFlags) *cobra.Command {
	var (
		ff      frameFlags
		output  string
		noLinks bool
	)
	cmd := &cobra.Command{
		Use:   "svg <dataset>",
		Short: "Write an SVG snapshot of the chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(args[0], flags, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := ff.apply(app, s); err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			opts := export.DefaultSVGOptions()
			opts.ShowLinks = !noLinks
			if err := export.SVG(w, s.eng.Frame(), opts); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			}
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "Leave out dependency arrows")
	return cmd
}
