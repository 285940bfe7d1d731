package importer

import (
	"fmt"
	"time"

	"github.com/dvoicu/atelier/internal/domain"
	"github.com/google/uuid"
)

// ImportedHistory holds the converted domain objects ready for persistence.
type ImportedHistory struct {
	Stages      []*domain.Stage
	Transitions []*domain.StageTransitionEvent
	Sessions    []*domain.WorkSession
}

// Convert transforms a validated ExportSchema into domain objects.
// Call ValidateExportSchema first; Convert assumes the schema is valid.
// Transition file order is preserved so ties on occurred_at resolve the same
// way they did in the source system.
func Convert(schema *ExportSchema) (*ImportedHistory, error) {
	now := time.Now().UTC()

	stages := make([]*domain.Stage, 0, len(schema.Stages))
	for _, s := range schema.Stages {
		stages = append(stages, &domain.Stage{
			ID:         s.ID,
			PipelineID: schema.Pipeline.ID,
			Name:       s.Name,
			Position:   s.Position,
		})
	}

	transitions := make([]*domain.StageTransitionEvent, 0, len(schema.Transitions))
	for i, tr := range schema.Transitions {
		occurredAt, err := time.Parse(time.RFC3339, tr.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing transitions[%d].occurred_at: %w", i, err)
		}
		transitions = append(transitions, &domain.StageTransitionEvent{
			TrayID:       tr.TrayID,
			FromStageID:  emptyToNil(tr.FromStageID),
			ToStageID:    tr.ToStageID,
			TechnicianID: emptyToNil(tr.TechnicianID),
			OccurredAt:   occurredAt,
		})
	}

	sessions := make([]*domain.WorkSession, 0, len(schema.Sessions))
	for i, s := range schema.Sessions {
		startedAt, err := time.Parse(time.RFC3339, s.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing sessions[%d].started_at: %w", i, err)
		}
		session := &domain.WorkSession{
			ID:           uuid.New().String(),
			TrayID:       s.TrayID,
			TechnicianID: s.TechnicianID,
			StartedAt:    startedAt,
			Note:         s.Note,
			CreatedAt:    now,
		}
		if s.FinishedAt != nil {
			finishedAt, err := time.Parse(time.RFC3339, *s.FinishedAt)
			if err != nil {
				return nil, fmt.Errorf("parsing sessions[%d].finished_at: %w", i, err)
			}
			session.FinishedAt = &finishedAt
		}
		sessions = append(sessions, session)
	}

	return &ImportedHistory{
		Stages:      stages,
		Transitions: transitions,
		Sessions:    sessions,
	}, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
