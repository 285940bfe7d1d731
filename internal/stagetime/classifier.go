package stagetime

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dvoicu/atelier/internal/domain"
)

// PatternTable maps a stage category to the substrings that identify it in a
// stage's display name. Tables are configuration: each deployment supplies its
// own vocabulary ("in lucru", "in progress" and "în lucru" can all mean
// in-progress) and the engine never hard-codes stage names.
type PatternTable map[domain.StageCategory][]string

// DefaultPatterns returns the stock vocabulary used when a pipeline has no
// table of its own. Mixed Romanian/English, matching the stage names seen in
// the field.
func DefaultPatterns() PatternTable {
	return PatternTable{
		domain.CategoryInProgress: {"in lucru", "in progress", "lucru", "service"},
		domain.CategoryWaiting:    {"asteptare", "astept", "waiting", "wait", "piese"},
		domain.CategoryDone:       {"finalizat", "gata", "done", "predat", "finished", "ridicat"},
	}
}

// stripMarks removes combining diacritical marks after NFD decomposition, so
// "în lucru" and "in lucru" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowers the name, strips diacritics and collapses runs of
// whitespace to single spaces.
func Normalize(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// Classify maps a free-text stage name to its category by normalized substring
// matching. Categories are checked in precedence order and the first match
// wins. Unknown names classify as CategoryOther; classification never fails.
func Classify(stageName string, table PatternTable) domain.StageCategory {
	normalized := Normalize(stageName)
	if normalized == "" {
		return domain.CategoryOther
	}
	for _, cat := range domain.AllCategories {
		for _, pattern := range table[cat] {
			p := Normalize(pattern)
			if p == "" {
				continue
			}
			if strings.Contains(normalized, p) {
				return cat
			}
		}
	}
	return domain.CategoryOther
}
