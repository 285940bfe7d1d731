package service

import (
	"context"
	"errors"
	"time"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/domain"
	"github.com/dvoicu/atelier/internal/repository"
	"github.com/google/uuid"
)

// trackerService enforces at-most-one-open-session-per-(tray, technician) by
// re-reading inside its transaction before inserting, not by a database
// constraint. Two truly simultaneous Start calls on different connections can
// still both observe "no open session" and both insert; that race is a known
// property of the backend this mirrors and is left to the integrator to
// arbitrate, since neither first-wins nor last-wins is obviously right.
type trackerService struct {
	sessions repository.WorkSessionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewTrackerService creates a TrackerService over the given session store.
func NewTrackerService(sessions repository.WorkSessionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TrackerService {
	return &trackerService{
		sessions: sessions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *trackerService) Start(ctx context.Context, trayID, technicianID, note string) (session *domain.WorkSession, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tray": trayID, "technician": technicianID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "session-start",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteWorkSessionRepo(tx)

		existing, findErr := txSessions.FindOpen(ctx, trayID, technicianID)
		if findErr == nil {
			// Idempotent retry: hand back the open session unchanged.
			fields["reused"] = true
			session = existing
			return nil
		}
		if !errors.Is(findErr, repository.ErrNotFound) {
			return findErr
		}

		now := time.Now().UTC()
		session = &domain.WorkSession{
			ID:           uuid.New().String(),
			TrayID:       trayID,
			TechnicianID: technicianID,
			StartedAt:    now,
			Note:         note,
			CreatedAt:    now,
		}
		return txSessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *trackerService) Finish(ctx context.Context, trayID, technicianID, note string) (finished bool, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "session-finish",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"tray": trayID, "technician": technicianID, "finished": finished},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteWorkSessionRepo(tx)

		open, findErr := txSessions.FindOpen(ctx, trayID, technicianID)
		if errors.Is(findErr, repository.ErrNotFound) {
			return nil // nothing to finish; not an error
		}
		if findErr != nil {
			return findErr
		}

		now := time.Now().UTC()
		open.FinishedAt = &now
		if note != "" {
			open.Note = note
		}
		if updateErr := txSessions.Update(ctx, open); updateErr != nil {
			return updateErr
		}
		finished = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return finished, nil
}

func (s *trackerService) ElapsedMinutes(ctx context.Context, trayID, technicianID string) (float64, error) {
	sessions, err := s.sessions.ListByTrayAndTechnician(ctx, trayID, technicianID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	var total time.Duration
	for _, sess := range sessions {
		total += sess.ElapsedAt(now)
	}
	return total.Minutes(), nil
}

func (s *trackerService) Edit(ctx context.Context, sessionID string, patch contract.SessionPatch) (session *domain.WorkSession, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "session-edit",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"session": sessionID},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteWorkSessionRepo(tx)

		current, getErr := txSessions.GetByID(ctx, sessionID)
		if getErr != nil {
			return getErr
		}
		if applyErr := current.ApplyEdit(patch.StartedAt, patch.FinishedAt); applyErr != nil {
			return applyErr
		}
		if patch.Note != nil {
			current.Note = *patch.Note
		}
		if updateErr := txSessions.Update(ctx, current); updateErr != nil {
			return updateErr
		}
		session = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
