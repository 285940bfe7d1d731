package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/domain"
)

// SQLiteWorkSessionRepo implements WorkSessionRepo using a SQLite database.
type SQLiteWorkSessionRepo struct {
	db db.DBTX
}

// NewSQLiteWorkSessionRepo creates a new SQLiteWorkSessionRepo.
func NewSQLiteWorkSessionRepo(db db.DBTX) *SQLiteWorkSessionRepo {
	return &SQLiteWorkSessionRepo{db: db}
}

const sessionColumns = `id, tray_id, technician_id, started_at, finished_at, note, created_at`

func (r *SQLiteWorkSessionRepo) Create(ctx context.Context, s *domain.WorkSession) error {
	query := `INSERT INTO work_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TrayID,
		s.TechnicianID,
		timeToDB(s.StartedAt),
		nullableTimeToString(s.FinishedAt, time.RFC3339),
		s.Note,
		timeToDB(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work session: %w", err)
	}
	return nil
}

func (r *SQLiteWorkSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanSession(row)
}

func (r *SQLiteWorkSessionRepo) FindOpen(ctx context.Context, trayID, technicianID string) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions
		WHERE tray_id = ? AND technician_id = ? AND finished_at IS NULL
		ORDER BY started_at DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, trayID, technicianID)
	return r.scanSession(row)
}

func (r *SQLiteWorkSessionRepo) ListByTrayAndTechnician(ctx context.Context, trayID, technicianID string) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions
		WHERE tray_id = ? AND technician_id = ?
		ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, trayID, technicianID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by tray and technician: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteWorkSessionRepo) ListOverlapping(ctx context.Context, trayIDs []string, rangeStart, rangeEnd time.Time) ([]*domain.WorkSession, error) {
	if len(trayIDs) == 0 {
		return nil, nil
	}

	// Overlap, not containment: a session overlaps the range when it starts
	// before the range ends and either is still open or finishes after the
	// range starts.
	query := `SELECT ` + sessionColumns + ` FROM work_sessions
		WHERE tray_id IN (` + inPlaceholders(len(trayIDs)) + `)
		  AND started_at < ?
		  AND (finished_at IS NULL OR finished_at > ?)
		ORDER BY started_at`
	args := make([]any, 0, len(trayIDs)+2)
	for _, id := range trayIDs {
		args = append(args, id)
	}
	args = append(args, timeToDB(rangeEnd), timeToDB(rangeStart))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing overlapping sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteWorkSessionRepo) Update(ctx context.Context, s *domain.WorkSession) error {
	query := `UPDATE work_sessions SET started_at = ?, finished_at = ?, note = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		timeToDB(s.StartedAt),
		nullableTimeToString(s.FinishedAt, time.RFC3339),
		s.Note,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("work session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorkSessionRepo) scanSession(row *sql.Row) (*domain.WorkSession, error) {
	var s domain.WorkSession
	var startedAtStr, createdAtStr string
	var finishedAt sql.NullString

	err := row.Scan(&s.ID, &s.TrayID, &s.TechnicianID, &startedAtStr, &finishedAt, &s.Note, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work session: %w", err)
	}

	return r.populateSession(&s, startedAtStr, createdAtStr, finishedAt)
}

func (r *SQLiteWorkSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	for rows.Next() {
		var s domain.WorkSession
		var startedAtStr, createdAtStr string
		var finishedAt sql.NullString

		err := rows.Scan(&s.ID, &s.TrayID, &s.TechnicianID, &startedAtStr, &finishedAt, &s.Note, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}

		session, parseErr := r.populateSession(&s, startedAtStr, createdAtStr, finishedAt)
		if parseErr != nil {
			return nil, parseErr
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteWorkSessionRepo) populateSession(s *domain.WorkSession, startedAtStr, createdAtStr string, finishedAt sql.NullString) (*domain.WorkSession, error) {
	var parseErr error
	s.StartedAt, parseErr = time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.FinishedAt = parseNullableTime(finishedAt, time.RFC3339)
	return s, nil
}
