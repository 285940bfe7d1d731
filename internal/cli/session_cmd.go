package cli

import (
	"context"
	"fmt"

	"github.com/dvoicu/atelier/internal/cli/formatter"
	"github.com/dvoicu/atelier/internal/contract"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Track technician work sessions on trays",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionFinishCmd(app),
		newSessionElapsedCmd(app),
		newSessionEditCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	var trayID, technicianID, note string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start (or resume) a work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Tracker.Start(context.Background(), trayID, technicianID, note)
			if err != nil {
				return err
			}
			fmt.Printf("Session %s running for %s on tray %s (started %s)\n",
				formatter.TruncID(session.ID), technicianID, trayID,
				formatter.HumanTimestamp(session.StartedAt))
			return nil
		},
	}

	cmd.Flags().StringVar(&trayID, "tray", "", "Tray ID")
	cmd.Flags().StringVar(&technicianID, "tech", "", "Technician ID")
	cmd.Flags().StringVar(&note, "note", "", "Session note")
	_ = cmd.MarkFlagRequired("tray")
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

func newSessionFinishCmd(app *App) *cobra.Command {
	var trayID, technicianID, note string

	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Finish the open work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			finished, err := app.Tracker.Finish(context.Background(), trayID, technicianID, note)
			if err != nil {
				return err
			}
			if !finished {
				fmt.Printf("No open session for %s on tray %s.\n", technicianID, trayID)
				return nil
			}
			fmt.Printf("Finished session for %s on tray %s\n", technicianID, trayID)
			return nil
		},
	}

	cmd.Flags().StringVar(&trayID, "tray", "", "Tray ID")
	cmd.Flags().StringVar(&technicianID, "tech", "", "Technician ID")
	cmd.Flags().StringVar(&note, "note", "", "Closing note")
	_ = cmd.MarkFlagRequired("tray")
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

func newSessionElapsedCmd(app *App) *cobra.Command {
	var trayID, technicianID string

	cmd := &cobra.Command{
		Use:   "elapsed",
		Short: "Show total worked time for a technician on a tray",
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := app.Tracker.ElapsedMinutes(context.Background(), trayID, technicianID)
			if err != nil {
				return err
			}
			fmt.Printf("%s worked %s on tray %s\n",
				technicianID, formatter.Bold(formatter.Minutes(minutes)), trayID)
			return nil
		},
	}

	cmd.Flags().StringVar(&trayID, "tray", "", "Tray ID")
	cmd.Flags().StringVar(&technicianID, "tech", "", "Technician ID")
	_ = cmd.MarkFlagRequired("tray")
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

func newSessionEditCmd(app *App) *cobra.Command {
	var startedFlag, finishedFlag, noteFlag string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Correct a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			// No flags on an interactive terminal: open the form.
			if startedFlag == "" && finishedFlag == "" && noteFlag == "" && app.interactive() {
				var err error
				startedFlag, finishedFlag, noteFlag, err = runSessionEditForm()
				if err != nil {
					return err
				}
			}

			patch := contract.SessionPatch{}
			var err error
			if patch.StartedAt, err = parseOptionalTimestamp(startedFlag); err != nil {
				return err
			}
			if patch.FinishedAt, err = parseOptionalTimestamp(finishedFlag); err != nil {
				return err
			}
			if noteFlag != "" {
				patch.Note = &noteFlag
			}

			session, err := app.Tracker.Edit(context.Background(), sessionID, patch)
			if err != nil {
				return err
			}

			end := formatter.Dim("open")
			if session.FinishedAt != nil {
				end = session.FinishedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("Session %s: %s → %s\n",
				formatter.TruncID(session.ID),
				session.StartedAt.Local().Format("2006-01-02 15:04"), end)
			return nil
		},
	}

	cmd.Flags().StringVar(&startedFlag, "started", "", "New start time (RFC3339 or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&finishedFlag, "finished", "", "New finish time")
	cmd.Flags().StringVar(&noteFlag, "note", "", "New note")

	return cmd
}
