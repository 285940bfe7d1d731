package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and the full
// list re-runs on every open; ALTER TABLE duplicates are tolerated so older
// databases upgrade in place.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stages (
		id          TEXT PRIMARY KEY,
		pipeline_id TEXT NOT NULL,
		name        TEXT NOT NULL,
		position    INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stages_pipeline ON stages(pipeline_id)`,

	// Append-only stage transition log. rowid doubles as the insertion
	// sequence used to break occurred_at ties.
	`CREATE TABLE IF NOT EXISTS stage_transitions (
		tray_id       TEXT NOT NULL,
		from_stage_id TEXT,
		to_stage_id   TEXT NOT NULL,
		technician_id TEXT,
		occurred_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_transitions_tray ON stage_transitions(tray_id, occurred_at)`,

	`CREATE TABLE IF NOT EXISTS work_sessions (
		id            TEXT PRIMARY KEY,
		tray_id       TEXT NOT NULL,
		technician_id TEXT NOT NULL,
		started_at    TEXT NOT NULL,
		finished_at   TEXT,
		note          TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	// No unique constraint on open sessions: at-most-one-open is enforced by
	// the tracker's re-read inside its transaction, matching the backend this
	// schema stands in for. See the tracker docs for the remaining race.
	`CREATE INDEX IF NOT EXISTS idx_sessions_tray_tech ON work_sessions(tray_id, technician_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started ON work_sessions(started_at)`,

	`CREATE TABLE IF NOT EXISTS funnel_moves (
		id            TEXT PRIMARY KEY,
		tray_id       TEXT NOT NULL,
		pipeline_id   TEXT NOT NULL,
		from_stage_id TEXT,
		to_stage_id   TEXT NOT NULL,
		actor_id      TEXT,
		recorded_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_funnel_tray_stage ON funnel_moves(tray_id, to_stage_id, recorded_at)`,
}
