package cli

import (
	"context"
	"fmt"

	"github.com/dvoicu/atelier/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage pipeline stages",
	}

	cmd.AddCommand(
		newStageAddCmd(app),
		newStageListCmd(app),
	)

	return cmd
}

func newStageAddCmd(app *App) *cobra.Command {
	var pipelineID, name string
	var position int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pipeline stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := app.Pipeline.AddStage(context.Background(), pipelineID, name, position)
			if err != nil {
				return err
			}
			// Stage names drive classification; stale cached names would
			// misclassify until the TTL lapses.
			app.Reports.InvalidateStageCache()
			fmt.Printf("Added stage %s (%s) to pipeline %s\n", name, formatter.TruncID(stage.ID), pipelineID)
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelineID, "pipeline", "", "Pipeline ID")
	cmd.Flags().StringVar(&name, "name", "", "Stage display name")
	cmd.Flags().IntVar(&position, "position", 0, "Stage position in the pipeline")
	_ = cmd.MarkFlagRequired("pipeline")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStageListCmd(app *App) *cobra.Command {
	var pipelineID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a pipeline's stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := app.Pipeline.ListStages(context.Background(), pipelineID)
			if err != nil {
				return err
			}
			if len(stages) == 0 {
				fmt.Printf("No stages in pipeline %s.\n", pipelineID)
				return nil
			}

			rows := make([][]string, 0, len(stages))
			for _, s := range stages {
				rows = append(rows, []string{
					fmt.Sprintf("%d", s.Position),
					s.Name,
					formatter.TruncID(s.ID),
				})
			}
			fmt.Print(formatter.RenderBox("Pipeline "+pipelineID,
				formatter.RenderTable([]string{"#", "NAME", "ID"}, rows)))
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelineID, "pipeline", "", "Pipeline ID")
	_ = cmd.MarkFlagRequired("pipeline")

	return cmd
}
