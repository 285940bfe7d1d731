package service

import (
	"context"
	"errors"
	"time"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/domain"
	"github.com/dvoicu/atelier/internal/repository"
	"github.com/dvoicu/atelier/internal/stagetime"
	"github.com/google/uuid"
)

// defaultDedupWindow collapses UI double-fires (double-click, retry) of the
// same logical move into one funnel record. A genuine re-entry into the same
// stage later than the window counts again.
const defaultDedupWindow = 5 * time.Minute

// QualifyFunc decides whether a classified move belongs in the funnel.
type QualifyFunc func(from, to domain.StageCategory) bool

// QualifyTerminal records moves that land a tray in a terminal-outcome stage
// from anywhere else. Used when no predicate is supplied.
func QualifyTerminal(from, to domain.StageCategory) bool {
	return to == domain.CategoryDone && from != domain.CategoryDone
}

type funnelService struct {
	funnel   repository.FunnelRepo
	stages   repository.StageRepo
	patterns stagetime.PatternTable
	qualify  QualifyFunc
	observer UseCaseObserver
}

// NewFunnelService creates a FunnelService. Nil patterns and qualify fall
// back to the default vocabulary and QualifyTerminal.
func NewFunnelService(
	funnel repository.FunnelRepo,
	stages repository.StageRepo,
	patterns stagetime.PatternTable,
	qualify QualifyFunc,
	observers ...UseCaseObserver,
) FunnelService {
	if patterns == nil {
		patterns = stagetime.DefaultPatterns()
	}
	if qualify == nil {
		qualify = QualifyTerminal
	}
	return &funnelService{
		funnel:   funnel,
		stages:   stages,
		patterns: patterns,
		qualify:  qualify,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *funnelService) RecordMove(ctx context.Context, req contract.FunnelMoveRequest) (result contract.FunnelMoveResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "funnel-record",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"tray":     req.TrayID,
				"to_stage": req.ToStageID,
				"recorded": result.Recorded,
			},
		})
	}()

	fromCat, toCat, err := s.classifyMove(ctx, req.FromStageID, req.ToStageID)
	if err != nil {
		return contract.FunnelMoveResult{}, err
	}
	if !s.qualify(fromCat, toCat) {
		return contract.FunnelMoveResult{}, nil
	}

	window := req.DedupWindow
	if window <= 0 {
		window = defaultDedupWindow
	}
	now := time.Now().UTC()

	// Coarse dedup: same tray, same destination stage, inside the window.
	// Intentionally looser than full event equality.
	_, findErr := s.funnel.FindRecent(ctx, req.TrayID, req.ToStageID, now.Add(-window))
	if findErr == nil {
		return contract.FunnelMoveResult{Deduplicated: true}, nil
	}
	if !errors.Is(findErr, repository.ErrNotFound) {
		// Can't tell whether this is a duplicate. Skipping the insert
		// under-counts at worst; inserting anyway could double-count, which
		// is the harder error to walk back.
		return contract.FunnelMoveResult{DedupCheckErr: findErr}, nil
	}

	record := &domain.FunnelMoveRecord{
		ID:          uuid.New().String(),
		TrayID:      req.TrayID,
		PipelineID:  req.PipelineID,
		FromStageID: req.FromStageID,
		ToStageID:   req.ToStageID,
		ActorID:     req.ActorID,
		RecordedAt:  now,
	}
	if err = s.funnel.Insert(ctx, record); err != nil {
		return contract.FunnelMoveResult{}, err
	}
	return contract.FunnelMoveResult{Recorded: true}, nil
}

func (s *funnelService) classifyMove(ctx context.Context, fromStageID *string, toStageID string) (domain.StageCategory, domain.StageCategory, error) {
	ids := []string{toStageID}
	if fromStageID != nil {
		ids = append(ids, *fromStageID)
	}
	names, err := s.stages.ResolveNames(ctx, ids)
	if err != nil {
		return "", "", err
	}

	fromCat := domain.CategoryOther
	if fromStageID != nil {
		fromCat = stagetime.Classify(names[*fromStageID], s.patterns)
	}
	toCat := stagetime.Classify(names[toStageID], s.patterns)
	return fromCat, toCat, nil
}
