package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dvoicu/atelier/internal/cli/formatter"
	"github.com/dvoicu/atelier/internal/contract"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var trayIDs []string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Live shop-floor dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("dashboard needs an interactive terminal")
			}
			model := newDashboardModel(app, trayIDs)
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringSliceVar(&trayIDs, "tray", nil, "Tray IDs to watch (repeatable)")
	_ = cmd.MarkFlagRequired("tray")

	return cmd
}

// dashboardData holds the loaded data for the dashboard.
type dashboardData struct {
	today     *contract.RangeReport
	stages    *contract.StageReport
	timelines []*contract.TrayTimeline
}

// dashboardLoadedMsg signals that dashboard data has been loaded.
type dashboardLoadedMsg struct {
	data dashboardData
	err  error
}

type dashboardModel struct {
	app     *App
	trayIDs []string

	spinner spinner.Model
	data    *dashboardData
	loading bool
	err     error
}

func newDashboardModel(app *App, trayIDs []string) *dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleHeader
	return &dashboardModel{
		app:     app,
		trayIDs: trayIDs,
		spinner: sp,
		loading: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadData())
}

func (m *dashboardModel) loadData() tea.Cmd {
	app := m.app
	trayIDs := m.trayIDs
	return func() tea.Msg {
		ctx := context.Background()

		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		today, err := app.Reports.RangeReport(ctx, contract.RangeReportRequest{
			TrayIDs:    trayIDs,
			RangeStart: dayStart,
			RangeEnd:   dayStart.AddDate(0, 0, 1),
			Location:   time.Local,
		})
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		stages, err := app.Reports.StageReport(ctx, contract.StageReportRequest{
			TrayIDs: trayIDs,
			GroupBy: contract.GroupByCategory,
		})
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		timelines := make([]*contract.TrayTimeline, 0, len(trayIDs))
		for _, trayID := range trayIDs {
			timeline, err := app.Reports.TrayTimeline(ctx, trayID)
			if err != nil {
				return dashboardLoadedMsg{err: err}
			}
			timelines = append(timelines, timeline)
		}

		return dashboardLoadedMsg{data: dashboardData{
			today:     today,
			stages:    stages,
			timelines: timelines,
		}}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.app.Reports.InvalidateStageCache()
			return m, m.loadData()
		}

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.data = &msg.data
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *dashboardModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) +
			formatter.Dim("\n\nr retry · q quit\n")
	}
	if m.loading || m.data == nil {
		return m.spinner.View() + " Loading shop floor...\n"
	}

	out := formatter.Header("Atelier") + "\n\n"
	out += m.renderTrays() + "\n"
	out += m.renderToday() + "\n"
	out += m.renderCategories() + "\n"
	out += formatter.Dim("r refresh · q quit") + "\n"
	return out
}

func (m *dashboardModel) renderTrays() string {
	rows := make([][]string, 0, len(m.data.timelines))
	for _, timeline := range m.data.timelines {
		stage := formatter.Dim("no history")
		elapsed := ""
		if timeline.CurrentStageID != "" {
			stage = timeline.CurrentStage
			if stage == "" {
				stage = timeline.CurrentStageID
			}
			elapsed = formatter.Minutes(timeline.ElapsedMinutes)
		}
		rows = append(rows, []string{timeline.TrayID, stage, elapsed})
	}
	return formatter.RenderTable([]string{"TRAY", "STAGE", "IN STAGE"}, rows)
}

func (m *dashboardModel) renderToday() string {
	agg := m.data.today.Aggregate
	if agg.TotalMinutes() == 0 {
		return formatter.Dim("No work sessions today.") + "\n"
	}
	rows := make([][]string, 0, len(agg.MinutesByTechnician))
	for _, tech := range sortedKeys(agg.MinutesByTechnician) {
		rows = append(rows, []string{tech, formatter.Minutes(agg.MinutesByTechnician[tech])})
	}
	return formatter.RenderTable([]string{"TECHNICIAN", "TODAY"}, rows)
}

func (m *dashboardModel) renderCategories() string {
	if len(m.data.stages.TotalMinutes) == 0 {
		return ""
	}
	var maxTotal float64
	for _, total := range m.data.stages.TotalMinutes {
		if total > maxTotal {
			maxTotal = total
		}
	}
	rows := make([][]string, 0, len(m.data.stages.TotalMinutes))
	for _, key := range sortedKeys(m.data.stages.TotalMinutes) {
		rows = append(rows, []string{
			key,
			formatter.Minutes(m.data.stages.TotalMinutes[key]),
			formatter.Bar(m.data.stages.TotalMinutes[key], maxTotal, 20),
		})
	}
	return formatter.RenderTable([]string{"CATEGORY", "TOTAL", ""}, rows)
}
