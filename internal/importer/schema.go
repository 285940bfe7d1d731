package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExportSchema is the top-level JSON structure of a CRM history export used
// to backfill the analytics database.
type ExportSchema struct {
	Pipeline    PipelineExport     `json:"pipeline"`
	Stages      []StageExport      `json:"stages"`
	Transitions []TransitionExport `json:"transitions,omitempty"`
	Sessions    []SessionExport    `json:"sessions,omitempty"`
}

// PipelineExport identifies the pipeline the stages belong to.
type PipelineExport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StageExport defines one pipeline stage in the export file.
type StageExport struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// TransitionExport defines one stage move. Transitions must appear in the
// order they happened: insertion order breaks timestamp ties downstream.
type TransitionExport struct {
	TrayID       string  `json:"tray_id"`
	FromStageID  *string `json:"from_stage_id,omitempty"`
	ToStageID    string  `json:"to_stage_id"`
	TechnicianID *string `json:"technician_id,omitempty"`
	OccurredAt   string  `json:"occurred_at"`
}

// SessionExport defines one work session in the export file. A missing
// finished_at imports as a still-open session.
type SessionExport struct {
	TrayID       string  `json:"tray_id"`
	TechnicianID string  `json:"technician_id"`
	StartedAt    string  `json:"started_at"`
	FinishedAt   *string `json:"finished_at,omitempty"`
	Note         string  `json:"note,omitempty"`
}

// LoadExportSchema reads and parses a CRM export JSON file.
func LoadExportSchema(path string) (*ExportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ExportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing export file: %w", err)
	}
	return &schema, nil
}
