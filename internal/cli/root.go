package cli

import (
	"github.com/dvoicu/atelier/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tracker  service.TrackerService
	Reports  service.ReportService
	Funnel   service.FunnelService
	Pipeline service.PipelineService
	Import   service.ImportService

	// IsInteractive reports whether stdin is an interactive terminal.
	// Commands that can prompt fall back to flags when it returns false.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "atelier" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "atelier",
		Short: "Stage-time and work-session analytics for the repair shop",
	}

	root.AddCommand(
		newSessionCmd(app),
		newReportCmd(app),
		newFunnelCmd(app),
		newStageCmd(app),
		newTrayCmd(app),
		newImportCmd(app),
		newDashboardCmd(app),
	)

	return root
}
