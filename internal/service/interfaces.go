package service

import (
	"context"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/domain"
)

// TrackerService manages the start/finish lifecycle of technician work
// sessions on trays.
type TrackerService interface {
	// Start opens a session for (tray, technician), or returns the already
	// open one unchanged. Safe to retry.
	Start(ctx context.Context, trayID, technicianID, note string) (*domain.WorkSession, error)
	// Finish closes the open session for the pair. Returns false, not an
	// error, when there is nothing to finish.
	Finish(ctx context.Context, trayID, technicianID, note string) (bool, error)
	// ElapsedMinutes sums all of the pair's sessions, counting open ones up
	// to now. Never negative.
	ElapsedMinutes(ctx context.Context, trayID, technicianID string) (float64, error)
	// Edit applies a privileged manual correction. Returns
	// domain.ErrInvalidRange when the patch would invert the interval.
	Edit(ctx context.Context, sessionID string, patch contract.SessionPatch) (*domain.WorkSession, error)
}

// ReportService composes the reconstructor and the range aggregator over the
// stores into dashboard-ready summaries.
type ReportService interface {
	TrayTimeline(ctx context.Context, trayID string) (*contract.TrayTimeline, error)
	StageReport(ctx context.Context, req contract.StageReportRequest) (*contract.StageReport, error)
	RangeReport(ctx context.Context, req contract.RangeReportRequest) (*contract.RangeReport, error)
	// InvalidateStageCache drops cached stage-name lookups after upstream
	// pipeline configuration changes.
	InvalidateStageCache()
}

// FunnelService records qualifying stage moves for conversion analytics.
type FunnelService interface {
	RecordMove(ctx context.Context, req contract.FunnelMoveRequest) (contract.FunnelMoveResult, error)
}

// PipelineService manages stage configuration and tray movement.
type PipelineService interface {
	AddStage(ctx context.Context, pipelineID, name string, position int) (*domain.Stage, error)
	ListStages(ctx context.Context, pipelineID string) ([]*domain.Stage, error)
	// MoveTray appends a transition to the tray's history, inferring the
	// from-stage from the latest event, and offers the move to the funnel.
	MoveTray(ctx context.Context, req contract.TrayMoveRequest) (*contract.TrayMoveResult, error)
}

// ImportService backfills the database from a CRM history export.
type ImportService interface {
	ImportHistory(ctx context.Context, path string) (*contract.ImportResult, error)
}
