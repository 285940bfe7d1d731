package importer

import (
	"fmt"
	"time"
)

// ValidateExportSchema checks the export for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateExportSchema(schema *ExportSchema) []error {
	var errs []error

	if schema.Pipeline.ID == "" {
		errs = append(errs, fmt.Errorf("pipeline.id is required"))
	}

	stageIDs := make(map[string]bool)
	errs = append(errs, validateStages(schema.Stages, stageIDs)...)
	errs = append(errs, validateTransitions(schema.Transitions, stageIDs)...)
	errs = append(errs, validateSessions(schema.Sessions)...)

	return errs
}

func validateStages(stages []StageExport, stageIDs map[string]bool) []error {
	var errs []error

	if len(stages) == 0 {
		errs = append(errs, fmt.Errorf("stages: at least one stage is required"))
	}
	for i, s := range stages {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("stages[%d].id is required", i))
			continue
		}
		if stageIDs[s.ID] {
			errs = append(errs, fmt.Errorf("stages[%d].id %q is duplicated", i, s.ID))
		}
		stageIDs[s.ID] = true
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("stages[%d].name is required", i))
		}
	}

	return errs
}

func validateTransitions(transitions []TransitionExport, stageIDs map[string]bool) []error {
	var errs []error

	for i, tr := range transitions {
		if tr.TrayID == "" {
			errs = append(errs, fmt.Errorf("transitions[%d].tray_id is required", i))
		}
		if tr.ToStageID == "" {
			errs = append(errs, fmt.Errorf("transitions[%d].to_stage_id is required", i))
		} else if !stageIDs[tr.ToStageID] {
			errs = append(errs, fmt.Errorf("transitions[%d].to_stage_id %q is not a declared stage", i, tr.ToStageID))
		}
		if tr.FromStageID != nil && *tr.FromStageID != "" && !stageIDs[*tr.FromStageID] {
			errs = append(errs, fmt.Errorf("transitions[%d].from_stage_id %q is not a declared stage", i, *tr.FromStageID))
		}
		if tr.OccurredAt == "" {
			errs = append(errs, fmt.Errorf("transitions[%d].occurred_at is required", i))
		} else if _, err := time.Parse(time.RFC3339, tr.OccurredAt); err != nil {
			errs = append(errs, fmt.Errorf("transitions[%d].occurred_at: invalid timestamp %q (expected RFC3339)", i, tr.OccurredAt))
		}
	}

	return errs
}

func validateSessions(sessions []SessionExport) []error {
	var errs []error

	for i, s := range sessions {
		if s.TrayID == "" {
			errs = append(errs, fmt.Errorf("sessions[%d].tray_id is required", i))
		}
		if s.TechnicianID == "" {
			errs = append(errs, fmt.Errorf("sessions[%d].technician_id is required", i))
		}

		var started time.Time
		if s.StartedAt == "" {
			errs = append(errs, fmt.Errorf("sessions[%d].started_at is required", i))
		} else {
			var err error
			started, err = time.Parse(time.RFC3339, s.StartedAt)
			if err != nil {
				errs = append(errs, fmt.Errorf("sessions[%d].started_at: invalid timestamp %q (expected RFC3339)", i, s.StartedAt))
			}
		}
		if s.FinishedAt != nil {
			finished, err := time.Parse(time.RFC3339, *s.FinishedAt)
			if err != nil {
				errs = append(errs, fmt.Errorf("sessions[%d].finished_at: invalid timestamp %q (expected RFC3339)", i, *s.FinishedAt))
			} else if !started.IsZero() && finished.Before(started) {
				errs = append(errs, fmt.Errorf("sessions[%d].finished_at %q is before started_at %q", i, *s.FinishedAt, s.StartedAt))
			}
		}
	}

	return errs
}
