package cli

import (
	"context"
	"fmt"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/spf13/cobra"
)

func newTrayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Move trays through the pipeline",
	}

	cmd.AddCommand(newTrayMoveCmd(app))

	return cmd
}

func newTrayMoveCmd(app *App) *cobra.Command {
	var trayID, pipelineID, toStageID, technicianID, occurredFlag string

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Record a tray entering a stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.TrayMoveRequest{
				TrayID:       trayID,
				PipelineID:   pipelineID,
				ToStageID:    toStageID,
				TechnicianID: technicianID,
			}
			if occurredFlag != "" {
				occurredAt, err := parseTimestamp(occurredFlag)
				if err != nil {
					return err
				}
				req.OccurredAt = occurredAt
			}

			result, err := app.Pipeline.MoveTray(context.Background(), req)
			if err != nil {
				return err
			}

			from := "(first stage)"
			if result.FromStageID != nil {
				from = *result.FromStageID
			}
			fmt.Printf("Tray %s: %s → %s\n", trayID, from, toStageID)
			if result.Funnel.Recorded {
				fmt.Println("Funnel move recorded.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trayID, "tray", "", "Tray ID")
	cmd.Flags().StringVar(&pipelineID, "pipeline", "", "Pipeline ID")
	cmd.Flags().StringVar(&toStageID, "to", "", "Destination stage ID")
	cmd.Flags().StringVar(&technicianID, "tech", "", "Technician performing the move")
	cmd.Flags().StringVar(&occurredFlag, "at", "", "Move time (defaults to now)")
	_ = cmd.MarkFlagRequired("tray")
	_ = cmd.MarkFlagRequired("pipeline")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
