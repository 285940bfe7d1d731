package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dvoicu/atelier/internal/cli/formatter"
	"github.com/dvoicu/atelier/internal/contract"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Stage-time and work-session reports",
	}

	cmd.AddCommand(
		newReportTrayCmd(app),
		newReportStagesCmd(app),
		newReportRangeCmd(app),
	)

	return cmd
}

func newReportTrayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tray ID",
		Short: "Show a tray's stage timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline, err := app.Reports.TrayTimeline(context.Background(), args[0])
			if err != nil {
				return err
			}

			if len(timeline.Entries) == 0 {
				fmt.Printf("No stage history for tray %s.\n", args[0])
				return nil
			}

			headers := []string{"STAGE", "CATEGORY", "WHEN", "TIME"}
			rows := make([][]string, 0, len(timeline.Entries))
			for _, e := range timeline.Entries {
				name := e.StageName
				if name == "" {
					name = formatter.Dim(e.StageID)
				}
				rows = append(rows, []string{
					name,
					formatter.CategoryPill(e.Category),
					formatter.TimeRange(e.Start, e.End, e.Open),
					formatter.Minutes(e.Minutes),
				})
			}

			content := formatter.RenderTable(headers, rows)
			if timeline.CurrentStageID != "" {
				content += fmt.Sprintf("\nCurrently in %s for %s",
					formatter.Bold(timeline.CurrentStage),
					formatter.Minutes(timeline.ElapsedMinutes))
			}
			fmt.Print(formatter.RenderBox("Tray "+args[0], content))
			return nil
		},
	}
}

func newReportStagesCmd(app *App) *cobra.Command {
	var trayIDs []string
	var byCategory bool

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Total and average time per stage across trays",
		RunE: func(cmd *cobra.Command, args []string) error {
			groupBy := contract.GroupByStage
			if byCategory {
				groupBy = contract.GroupByCategory
			}

			report, err := app.Reports.StageReport(context.Background(), contract.StageReportRequest{
				TrayIDs: trayIDs,
				GroupBy: groupBy,
			})
			if err != nil {
				return err
			}

			if len(report.TotalMinutes) == 0 {
				fmt.Println("No stage history for the given trays.")
				return nil
			}

			rows := make([][]string, 0, len(report.TotalMinutes))
			for _, key := range sortedKeys(report.TotalMinutes) {
				rows = append(rows, []string{
					key,
					formatter.Minutes(report.TotalMinutes[key]),
					formatter.Minutes(report.AverageMinutes[key]),
				})
			}

			fmt.Print(formatter.RenderBox("Stage Time",
				formatter.RenderTable([]string{"GROUP", "TOTAL", "AVG/VISIT"}, rows)))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&trayIDs, "tray", nil, "Tray IDs to include (repeatable)")
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "Group by stage category instead of stage")
	_ = cmd.MarkFlagRequired("tray")

	return cmd
}

func newReportRangeCmd(app *App) *cobra.Command {
	var trayIDs []string
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Worked minutes per technician and per day in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			rangeStart, err := parseTimestamp(fromFlag)
			if err != nil {
				return err
			}
			rangeEnd, err := parseTimestamp(toFlag)
			if err != nil {
				return err
			}

			report, err := app.Reports.RangeReport(context.Background(), contract.RangeReportRequest{
				TrayIDs:    trayIDs,
				RangeStart: rangeStart,
				RangeEnd:   rangeEnd,
				Location:   time.Local,
			})
			if err != nil {
				return err
			}

			agg := report.Aggregate
			if agg.TotalMinutes() == 0 {
				fmt.Println("No work sessions in the given window.")
				return nil
			}

			techRows := make([][]string, 0, len(agg.MinutesByTechnician))
			for _, tech := range sortedKeys(agg.MinutesByTechnician) {
				techRows = append(techRows, []string{tech, formatter.Minutes(agg.MinutesByTechnician[tech])})
			}

			var maxDay float64
			for _, m := range agg.MinutesByDay {
				if m > maxDay {
					maxDay = m
				}
			}
			dayRows := make([][]string, 0, len(agg.MinutesByDay))
			for _, day := range sortedKeys(agg.MinutesByDay) {
				dayRows = append(dayRows, []string{
					day,
					formatter.Minutes(agg.MinutesByDay[day]),
					formatter.Bar(agg.MinutesByDay[day], maxDay, 20),
				})
			}

			content := formatter.RenderTable([]string{"TECHNICIAN", "WORKED"}, techRows) +
				"\n" + formatter.RenderTable([]string{"DAY", "WORKED", ""}, dayRows) +
				"\n" + formatter.Dim("Total ") + formatter.Bold(formatter.Minutes(agg.TotalMinutes()))
			fmt.Print(formatter.RenderBox("Work Sessions", content))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&trayIDs, "tray", nil, "Tray IDs to include (repeatable)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Window start (inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Window end (exclusive)")
	_ = cmd.MarkFlagRequired("tray")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
