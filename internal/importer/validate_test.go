package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExport() *ExportSchema {
	from := "s-rec"
	finished := "2025-06-02T10:30:00Z"
	return &ExportSchema{
		Pipeline: PipelineExport{ID: "p1", Name: "Service"},
		Stages: []StageExport{
			{ID: "s-rec", Name: "Receptie", Position: 1},
			{ID: "s-work", Name: "In lucru", Position: 2},
		},
		Transitions: []TransitionExport{
			{TrayID: "tray-1", ToStageID: "s-rec", OccurredAt: "2025-06-02T09:00:00Z"},
			{TrayID: "tray-1", FromStageID: &from, ToStageID: "s-work", OccurredAt: "2025-06-02T09:40:00Z"},
		},
		Sessions: []SessionExport{
			{TrayID: "tray-1", TechnicianID: "ana", StartedAt: "2025-06-02T09:45:00Z", FinishedAt: &finished},
		},
	}
}

func TestValidateExportSchema_Valid(t *testing.T) {
	assert.Empty(t, ValidateExportSchema(validExport()))
}

func TestValidateExportSchema_MissingPipelineAndStages(t *testing.T) {
	errs := ValidateExportSchema(&ExportSchema{})
	assertHasError(t, errs, "pipeline.id is required")
	assertHasError(t, errs, "at least one stage is required")
}

func TestValidateExportSchema_DuplicateStageID(t *testing.T) {
	schema := validExport()
	schema.Stages = append(schema.Stages, StageExport{ID: "s-rec", Name: "Receptie 2", Position: 3})
	assertHasError(t, ValidateExportSchema(schema), `"s-rec" is duplicated`)
}

func TestValidateExportSchema_UnknownStageRef(t *testing.T) {
	schema := validExport()
	schema.Transitions[0].ToStageID = "s-ghost"
	assertHasError(t, ValidateExportSchema(schema), `"s-ghost" is not a declared stage`)
}

func TestValidateExportSchema_BadTimestamp(t *testing.T) {
	schema := validExport()
	schema.Transitions[0].OccurredAt = "02.06.2025 09:00"
	assertHasError(t, ValidateExportSchema(schema), "expected RFC3339")
}

func TestValidateExportSchema_FinishedBeforeStarted(t *testing.T) {
	schema := validExport()
	early := "2025-06-02T09:00:00Z"
	schema.Sessions[0].FinishedAt = &early
	assertHasError(t, ValidateExportSchema(schema), "is before started_at")
}

func assertHasError(t *testing.T, errs []error, substr string) {
	t.Helper()
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return
		}
	}
	require.Failf(t, "missing validation error", "no error containing %q in %v", substr, errs)
}
