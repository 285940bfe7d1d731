package testutil

import (
	"time"

	"github.com/dvoicu/atelier/internal/domain"
	"github.com/google/uuid"
)

// Session options

type SessionOption func(*domain.WorkSession)

func WithSessionID(id string) SessionOption {
	return func(s *domain.WorkSession) {
		s.ID = id
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.WorkSession) {
		s.StartedAt = t
	}
}

func WithFinishedAt(t time.Time) SessionOption {
	return func(s *domain.WorkSession) {
		s.FinishedAt = &t
	}
}

func WithNote(note string) SessionOption {
	return func(s *domain.WorkSession) {
		s.Note = note
	}
}

// NewTestSession builds an open work session starting at a fixed instant.
// Options override individual fields.
func NewTestSession(trayID, technicianID string, opts ...SessionOption) *domain.WorkSession {
	started := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	s := &domain.WorkSession{
		ID:           uuid.New().String(),
		TrayID:       trayID,
		TechnicianID: technicianID,
		StartedAt:    started,
		CreatedAt:    started,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transition options

type TransitionOption func(*domain.StageTransitionEvent)

func WithFromStage(stageID string) TransitionOption {
	return func(ev *domain.StageTransitionEvent) {
		ev.FromStageID = &stageID
	}
}

func WithTechnician(technicianID string) TransitionOption {
	return func(ev *domain.StageTransitionEvent) {
		ev.TechnicianID = &technicianID
	}
}

// NewTestTransition builds a stage transition event for a tray.
func NewTestTransition(trayID, toStageID string, occurredAt time.Time, opts ...TransitionOption) *domain.StageTransitionEvent {
	ev := &domain.StageTransitionEvent{
		TrayID:     trayID,
		ToStageID:  toStageID,
		OccurredAt: occurredAt,
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// NewTestStage builds a pipeline stage.
func NewTestStage(id, pipelineID, name string, position int) *domain.Stage {
	return &domain.Stage{
		ID:         id,
		PipelineID: pipelineID,
		Name:       name,
		Position:   position,
	}
}
