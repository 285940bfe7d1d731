package contract

import "time"

// SessionPatch is a privileged manual correction to a work session. Nil
// fields are left untouched.
type SessionPatch struct {
	StartedAt  *time.Time
	FinishedAt *time.Time
	Note       *string
}

// FunnelMoveRequest describes a stage move offered to the funnel recorder.
// DedupWindow <= 0 falls back to the recorder's default.
type FunnelMoveRequest struct {
	TrayID      string
	PipelineID  string
	FromStageID *string
	ToStageID   string
	ActorID     *string
	DedupWindow time.Duration
}

// TrayMoveRequest moves a tray into a stage. An empty TechnicianID imports
// as an unattributed move.
type TrayMoveRequest struct {
	TrayID       string
	PipelineID   string
	ToStageID    string
	TechnicianID string
	OccurredAt   time.Time
}

// TrayMoveResult reports the appended transition and what the funnel made
// of it.
type TrayMoveResult struct {
	FromStageID *string
	Funnel      FunnelMoveResult
}

// ImportResult counts what a history import wrote.
type ImportResult struct {
	Stages      int
	Transitions int
	Sessions    int
}

// FunnelMoveResult separates the primary outcome (was a record written) from
// auxiliary outcomes: Deduplicated marks a collapse onto an existing recent
// record, and DedupCheckErr carries a failed dedup lookup. When the check
// fails the recorder skips the insert rather than risk double-counting, so
// Recorded is false and the caller can decide whether to retry.
type FunnelMoveResult struct {
	Recorded      bool
	Deduplicated  bool
	DedupCheckErr error
}
