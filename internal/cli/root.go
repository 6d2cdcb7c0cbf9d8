// Package cli wires the engine to cobra commands and the terminal preview.
package cli

import (
	"database/sql"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/gantt"
)

// App holds process-level dependencies shared by commands.
type App struct {
	Config config.Config
	// OpenStore opens the view-state database. Nil disables persistence.
	OpenStore func(path string) (*sql.DB, error)
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// TermWidth reports the terminal width in columns.
	TermWidth func() (int, bool)
	Now       func() time.Time
	// RunProgram runs the preview model to completion.
	RunProgram func(m tea.Model) (tea.Model, error)
	// Confirmer answers date changes outside the preview. Nil prompts on
	// the terminal.
	Confirmer gantt.Confirmer
}

// NewRootCmd creates the top-level "gantry" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gantry",
		Short:         "Timeline (Gantt) engine and terminal chart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := newGlobalFlags(app.Config)
	flags.register(root.PersistentFlags())

	root.AddCommand(
		newFrameCmd(app, flags),
		newSightsCmd(app, flags),
		newCheckCmd(app, flags),
		newExportCmd(app, flags),
		newMoveCmd(app, flags),
		newViewCmd(app, flags),
		newStateCmd(app),
	)
	return root
}
