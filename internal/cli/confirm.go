package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
)

// huhTheme applies the formatter palette to huh forms.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

// confirmForm asks whether to apply a date change. The answer is written
// to accepted when the form completes.
func confirmForm(rec *domain.TaskRecord, start, end string, accepted *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Reschedule %q?", rec.Name())).
				Description(fmt.Sprintf("%s → %s", start, end)).
				Affirmative("Apply").
				Negative("Keep").
				Value(accepted),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

// promptConfirmer asks on the terminal.
type promptConfirmer struct{}

var _ gantt.Confirmer = promptConfirmer{}

func (promptConfirmer) ConfirmDateChange(ctx context.Context, rec *domain.TaskRecord, start, end string) (bool, error) {
	var accepted bool
	if err := confirmForm(rec, start, end, &accepted).RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("confirming date change: %w", err)
	}
	return accepted, nil
}
