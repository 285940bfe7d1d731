package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/spf13/cobra"
)

func newFunnelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Conversion funnel recording",
	}

	cmd.AddCommand(newFunnelRecordCmd(app))

	return cmd
}

func newFunnelRecordCmd(app *App) *cobra.Command {
	var trayID, pipelineID, fromStageID, toStageID, actorID string
	var windowMinutes int

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Offer a stage move to the funnel",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.FunnelMoveRequest{
				TrayID:      trayID,
				PipelineID:  pipelineID,
				ToStageID:   toStageID,
				DedupWindow: time.Duration(windowMinutes) * time.Minute,
			}
			if fromStageID != "" {
				req.FromStageID = &fromStageID
			}
			if actorID != "" {
				req.ActorID = &actorID
			}

			result, err := app.Funnel.RecordMove(context.Background(), req)
			if err != nil {
				return err
			}

			switch {
			case result.Recorded:
				fmt.Printf("Recorded funnel move for tray %s into %s\n", trayID, toStageID)
			case result.Deduplicated:
				fmt.Println("Duplicate move inside the dedup window; nothing recorded.")
			case result.DedupCheckErr != nil:
				fmt.Printf("Dedup check failed (%v); move skipped.\n", result.DedupCheckErr)
			default:
				fmt.Println("Move does not qualify for the funnel.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trayID, "tray", "", "Tray ID")
	cmd.Flags().StringVar(&pipelineID, "pipeline", "", "Pipeline ID")
	cmd.Flags().StringVar(&fromStageID, "from", "", "Previous stage ID")
	cmd.Flags().StringVar(&toStageID, "to", "", "Destination stage ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Actor ID")
	cmd.Flags().IntVar(&windowMinutes, "window", 0, "Dedup window in minutes (0 for default)")
	_ = cmd.MarkFlagRequired("tray")
	_ = cmd.MarkFlagRequired("pipeline")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
