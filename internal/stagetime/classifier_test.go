package stagetime

import (
	"testing"

	"github.com/dvoicu/atelier/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "In Progress", "in progress"},
		{"strips diacritics", "În Lucru", "in lucru"},
		{"collapses whitespace", "  Waiting   for \t Parts ", "waiting for parts"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	table := DefaultPatterns()

	tests := []struct {
		stageName string
		want      domain.StageCategory
	}{
		{"In Lucru", domain.CategoryInProgress},
		{"în lucru", domain.CategoryInProgress},
		{"In Progress", domain.CategoryInProgress},
		{"Așteptare piese", domain.CategoryWaiting},
		{"Waiting for Parts", domain.CategoryWaiting},
		{"Finalizat", domain.CategoryDone},
		{"Gata de ridicare", domain.CategoryDone},
		{"Lead nou", domain.CategoryOther},
		{"", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.stageName, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.stageName, table))
		})
	}
}

func TestClassify_CustomVocabulary(t *testing.T) {
	// Pattern tables are per-deployment configuration; a different vocabulary
	// changes the outcome without touching the classifier.
	table := PatternTable{
		domain.CategoryInProgress: {"bench"},
		domain.CategoryDone:       {"shipped"},
	}

	assert.Equal(t, domain.CategoryInProgress, Classify("On Bench 3", table))
	assert.Equal(t, domain.CategoryDone, Classify("Shipped to customer", table))
	assert.Equal(t, domain.CategoryOther, Classify("In Lucru", table))
}

func TestClassify_PrecedenceOrder(t *testing.T) {
	// A name matching two categories resolves to the earlier one in
	// precedence order (in-progress before waiting before done).
	table := PatternTable{
		domain.CategoryInProgress: {"lucru"},
		domain.CategoryWaiting:    {"lucru"},
	}

	assert.Equal(t, domain.CategoryInProgress, Classify("In Lucru", table))
}

func TestClassify_EmptyPatternsIgnored(t *testing.T) {
	table := PatternTable{
		domain.CategoryInProgress: {"", "   "},
		domain.CategoryDone:       {"done"},
	}

	// Blank patterns never match everything.
	assert.Equal(t, domain.CategoryOther, Classify("Random Stage", table))
	assert.Equal(t, domain.CategoryDone, Classify("Done", table))
}
