package cli

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/axis"
	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
)

const (
	defaultCols      = 120
	defaultRows      = 20
	defaultPanelCols = 30
)

type frameFlags struct {
	cols, rows, panel int
	date              string
	asJSON            bool
	noPanel           bool
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.cols, "width", 0, "Chart width in columns (default: terminal width)")
	cmd.Flags().IntVar(&f.rows, "rows", defaultRows, "Number of task rows to show")
	cmd.Flags().IntVar(&f.panel, "panel", defaultPanelCols, "Task panel width in columns")
	cmd.Flags().BoolVar(&f.noPanel, "no-panel", false, "Hide the task panel")
	cmd.Flags().StringVar(&f.date, "date", "", "Date at the left edge (default: 10 days before today)")
}

// apply sizes and pans the session as requested.
func (f *frameFlags) apply(app *App, s *session) error {
	cols := f.cols
	if cols <= 0 {
		cols = defaultCols
		if app.TermWidth != nil {
			if w, ok := app.TermWidth(); ok && w > 0 {
				cols = w
			}
		}
	}
	s.fit(cols, f.rows, f.panel)
	if f.noPanel {
		s.eng.TogglePanel()
	}
	if f.date != "" {
		if err := s.eng.PanToDate(f.date); err != nil {
			return err
		}
	}
	return nil
}

func newFrameCmd(app *App, flags *globalFlags) *cobra.Command {
	var ff frameFlags
	cmd := &cobra.Command{
		Use:   "frame <dataset>",
		Short: "Print the chart for a dataset",
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

			out := cmd.OutOrStdout()
			frame := s.eng.Frame()
			if ff.asJSON {
				data, err := json.MarshalIndent(frameJSON(frame, s.eng.PanDate()), "", "  ")
				if err != nil {
					return fmt.Errorf("encoding frame: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprint(out, formatter.RenderChart(frame, formatter.Chart{Scrollbar: true}))
			for _, w := range s.warnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: "+w))
			}
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().BoolVar(&ff.asJSON, "json", false, "Print the frame as JSON")
	return cmd
}

type rowJSON struct {
	Key       string  `json:"key"`
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Depth     int     `json:"depth"`
	Start     string  `json:"start,omitempty"`
	End       string  `json:"end,omitempty"`
	X         float64 `json:"x"`
	Width     float64 `json:"width"`
	Invalid   bool    `json:"invalid,omitempty"`
	Group     bool    `json:"group,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty"`
	Disabled  bool    `json:"disabled,omitempty"`
	Offscreen string  `json:"offscreen,omitempty"`
}

type tickJSON struct {
	Label string  `json:"label"`
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
	Rest  bool    `json:"rest,omitempty"`
}

type linkJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type frameOutput struct {
	Sight     string     `json:"sight"`
	PanDate   string     `json:"pan_date"`
	Pan       float64    `json:"pan"`
	ViewWidth float64    `json:"view_width"`
	Total     int        `json:"total_rows"`
	Today     *float64   `json:"today,omitempty"`
	Majors    []tickJSON `json:"majors"`
	Minors    []tickJSON `json:"minors"`
	Rows      []rowJSON  `json:"rows"`
	Links     []linkJSON `json:"links,omitempty"`
}

func frameJSON(f gantt.Frame, panDate time.Time) frameOutput {
	out := frameOutput{
		Sight:     string(f.Sight.Type),
		PanDate:   panDate.Format(domain.DayLayout),
		Pan:       f.Pan,
		ViewWidth: f.ViewWidth,
		Total:     f.Total,
		Majors:    ticksJSON(f.Majors),
		Minors:    ticksJSON(f.Minors),
		Rows:      make([]rowJSON, 0, len(f.Rows)),
	}
	if f.Today.Visible {
		x := f.Today.X
		out.Today = &x
	}
	offscreen := make(map[string]domain.Side, len(f.Thumbs))
	for _, t := range f.Thumbs {
		offscreen[t.Key] = t.Side
	}
	for _, b := range f.Rows {
		r := rowJSON{
			Key:       b.Key,
			Name:      b.Record().Name(),
			Depth:     b.Depth,
			X:         b.X,
			Width:     b.Width,
			Invalid:   b.Invalid,
			Group:     b.Group,
			Collapsed: b.Collapsed,
			Disabled:  b.Disabled,
			Offscreen: string(offscreen[b.Key]),
		}
		if b.Item != nil {
			r.ID = b.Item.ID()
			if !b.Invalid {
				r.Start = b.Item.Start.Format(domain.DayLayout)
				r.End = b.Item.End.Format(domain.DayLayout)
			}
		}
		out.Rows = append(out.Rows, r)
	}
	for _, l := range f.Links {
		out.Links = append(out.Links, linkJSON{From: l.From.Item.ID(), To: l.To.Item.ID(), Type: string(l.Type)})
	}
	return out
}

func ticksJSON(ticks []axis.Tick) []tickJSON {
	out := make([]tickJSON, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, tickJSON{Label: t.Label, Left: t.Left, Width: t.Width, Rest: t.Rest})
	}
	return out
}
