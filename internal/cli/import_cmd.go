package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Backfill the database from a CRM history export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportHistory(context.Background(), args[0])
			if err != nil {
				return err
			}
			app.Reports.InvalidateStageCache()
			fmt.Printf("Imported %d stages, %d transitions, %d sessions\n",
				result.Stages, result.Transitions, result.Sessions)
			return nil
		},
	}
}
