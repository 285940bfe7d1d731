package domain

// Stage is a named state in a pipeline, e.g. "In Progress" or "Waiting for
// Parts". The analytics engine never interprets stage IDs itself; names are
// resolved on demand and classified by StageCategory.
type Stage struct {
	ID         string
	PipelineID string
	Name       string
	Position   int
}
