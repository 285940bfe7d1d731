package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dvoicu/atelier/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TransitionRepo reads the append-only stage transition log. Events come back
// ordered by occurred_at with ties broken by insertion order, which the
// reconstructor depends on.
type TransitionRepo interface {
	Append(ctx context.Context, ev *domain.StageTransitionEvent) error
	ListByTray(ctx context.Context, trayID string) ([]domain.StageTransitionEvent, error)
	// ListByTrays is the batch form for multi-tray reports. Nil range bounds
	// mean unbounded on that side.
	ListByTrays(ctx context.Context, trayIDs []string, rangeStart, rangeEnd *time.Time) ([]domain.StageTransitionEvent, error)
}

// WorkSessionRepo persists technician work sessions.
type WorkSessionRepo interface {
	Create(ctx context.Context, s *domain.WorkSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkSession, error)
	// FindOpen returns the open session for the pair, or ErrNotFound.
	FindOpen(ctx context.Context, trayID, technicianID string) (*domain.WorkSession, error)
	ListByTrayAndTechnician(ctx context.Context, trayID, technicianID string) ([]*domain.WorkSession, error)
	// ListOverlapping returns every session that overlaps [rangeStart,
	// rangeEnd]: started before and still open, finished inside, or fully
	// contained. Containment-only would undercount boundary-spanning work.
	ListOverlapping(ctx context.Context, trayIDs []string, rangeStart, rangeEnd time.Time) ([]*domain.WorkSession, error)
	Update(ctx context.Context, s *domain.WorkSession) error
}

// FunnelRepo persists deduplicated funnel move records.
type FunnelRepo interface {
	Insert(ctx context.Context, r *domain.FunnelMoveRecord) error
	// FindRecent returns the newest record for (tray, toStage) recorded at or
	// after since, or ErrNotFound.
	FindRecent(ctx context.Context, trayID, toStageID string, since time.Time) (*domain.FunnelMoveRecord, error)
}

// StageRepo resolves stage metadata for the classifier.
type StageRepo interface {
	Create(ctx context.Context, s *domain.Stage) error
	ResolveNames(ctx context.Context, stageIDs []string) (map[string]string, error)
	ListByPipeline(ctx context.Context, pipelineID string) ([]*domain.Stage, error)
}
