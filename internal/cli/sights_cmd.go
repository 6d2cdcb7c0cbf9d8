package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
)

func newSightsCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sights [dataset]",
		Short: "List the zoom levels",
		Long:  "List the zoom levels of a dataset, or the built-in ones when no dataset is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sights := domain.DefaultSights()
			if len(args) == 1 {
				ds, err := importer.Load(args[0])
				if err != nil {
					return err
				}
				if ds.Sights != nil {
					sights = ds.Sights
				}
			}

			day := float64(24 * time.Hour / time.Millisecond)
			rows := make([][]string, 0, len(sights))
			for _, s := range sights {
				typ := string(s.Type)
				if s.Type == domain.SightType(flags.sight) {
					typ = formatter.StyleGreen.Render("● " + typ)
				} else {
					typ = "  " + typ
				}
				rows = append(rows, []string{
					typ,
					s.Label,
					strconv.FormatFloat(s.Amp, 'f', -1, 64),
					strconv.FormatFloat(day/s.Amp, 'f', 2, 64),
				})
			}
			table := formatter.RenderTable([]string{"  TYPE", "LABEL", "MS/PX", "PX/DAY"}, rows)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Zoom levels", strings.TrimRight(table, "\n")))
			return nil
		},
	}
}
