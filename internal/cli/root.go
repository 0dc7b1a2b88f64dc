package cli

import (
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects     service.ProjectService
	Tasks        service.TaskService
	Timers       service.TimerService
	Dependencies service.DependencyService
	Stats        service.StatsService

	// IsInteractive reports whether stdin is a terminal; cascade
	// confirmations fall back to flags when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "tempo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempo",
		Short: "Task and time tracker with subtasks, estimates, and dependencies",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newTimerCmd(app),
		newDepCmd(app),
		newStatusCmd(app),
		newReportCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
