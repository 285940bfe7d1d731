package domain

// StageCategory is the semantic class of a pipeline stage, derived from the
// stage's display name. Classification is heuristic: stage vocabularies differ
// per workshop, so the substring tables live in configuration, not code.
type StageCategory string

const (
	CategoryInProgress StageCategory = "in_progress"
	CategoryWaiting    StageCategory = "waiting"
	CategoryDone       StageCategory = "done"
	CategoryOther      StageCategory = "other"
)

// AllCategories lists the categories in classification precedence order.
// Classify checks them in this order and returns the first match.
var AllCategories = []StageCategory{
	CategoryInProgress,
	CategoryWaiting,
	CategoryDone,
}
