package domain

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when a session edit would place the finish time
// before the start time. Callers surface it as a field-level validation error.
var ErrInvalidRange = errors.New("finished_at is before started_at")

// WorkSession is one technician's timed interval of active work on a tray.
// FinishedAt is nil while the session is open; an open session extends to
// "now" for all elapsed-time computations.
type WorkSession struct {
	ID           string
	TrayID       string
	TechnicianID string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Note         string
	CreatedAt    time.Time
}

// Open reports whether the session has no recorded finish time.
func (s *WorkSession) Open() bool {
	return s.FinishedAt == nil
}

// ElapsedAt returns the session's duration as of now. Open sessions are
// measured up to now; finished sessions ignore now entirely. Never negative.
func (s *WorkSession) ElapsedAt(now time.Time) time.Duration {
	end := now
	if s.FinishedAt != nil {
		end = *s.FinishedAt
	}
	d := end.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// ApplyEdit overwrites the session's timestamps from a manual correction.
// A nil field leaves the current value untouched. The resulting pair must
// satisfy finished >= started, otherwise ErrInvalidRange is returned and the
// session is left unchanged.
func (s *WorkSession) ApplyEdit(startedAt, finishedAt *time.Time) error {
	newStart := s.StartedAt
	if startedAt != nil {
		newStart = *startedAt
	}
	newFinish := s.FinishedAt
	if finishedAt != nil {
		newFinish = finishedAt
	}
	if newFinish != nil && newFinish.Before(newStart) {
		return ErrInvalidRange
	}
	s.StartedAt = newStart
	s.FinishedAt = newFinish
	return nil
}
