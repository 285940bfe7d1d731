package domain

import "time"

// FunnelMoveRecord is a deduplicated log entry for conversion analytics,
// written when a qualifying stage move occurs. It is kept separately from the
// raw transition log because the funnel needs coarser granularity and its own
// retention. Records are append-only; dedup happens at write time.
type FunnelMoveRecord struct {
	ID          string
	TrayID      string
	PipelineID  string
	FromStageID *string
	ToStageID   string
	ActorID     *string
	RecordedAt  time.Time
}
