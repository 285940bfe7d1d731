package domain

import "time"

// StageTransitionEvent is an immutable log entry recording that a tray moved
// into a stage. Events are produced by the pipeline mutation layer and read
// back here for interval reconstruction; they are never updated or deleted.
//
// Seq is the store's insertion order and breaks ties between events that share
// an OccurredAt timestamp: the later-inserted event wins.
type StageTransitionEvent struct {
	TrayID       string
	FromStageID  *string
	ToStageID    string
	TechnicianID *string
	OccurredAt   time.Time
	Seq          int64
}
