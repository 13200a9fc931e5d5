// Package recommender ranks knowledge documents against a student's weak
// areas and builds a study plan from the ranked material. The corpus is
// always passed in by the caller; nothing here reads shared state.
package recommender

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultLimit is the number of materials returned when the caller does not choose.
	DefaultLimit = 5
	// MaxPlanDays caps the length of a study plan.
	MaxPlanDays = 7
	// MaxKeyConcepts caps the concepts extracted from one document.
	MaxKeyConcepts = 10
	// PreviewLength is the number of characters kept in a material preview.
	PreviewLength = 200
)

// ErrPrecondition marks a caller contract violation such as a negative limit.
var ErrPrecondition = errors.New("precondition violated")

// KnowledgeDocument is a study material entry from the content store.
type KnowledgeDocument struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty"`
	Keywords   []string `json:"keywords"`
	Content    string   `json:"content"`
}

// Validate rejects documents that would match every weak area.
func (d KnowledgeDocument) Validate() error {
	if d.Topic == "" {
		return fmt.Errorf("%w: document %q has an empty topic", ErrPrecondition, d.ID)
	}
	for i, k := range d.Keywords {
		if k == "" {
			return fmt.Errorf("%w: document %q has an empty keyword at index %d", ErrPrecondition, d.ID, i)
		}
	}
	return nil
}

// ScoredDocument is a document with its relevance to a set of weak areas.
type ScoredDocument struct {
	KnowledgeDocument
	RelevanceScore int `json:"relevanceScore"`
}

// FormattedMaterial is a ranked document prepared for display.
type FormattedMaterial struct {
	Title       string   `json:"title"`
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty"`
	Preview     string   `json:"preview"`
	KeyConcepts []string `json:"keyConcepts"`
}

// Recommendations is the display form of a retrieval.
type Recommendations struct {
	Summary   string              `json:"summary"`
	Materials []FormattedMaterial `json:"materials"`
}

// StudyPlanEntry is one day of a study plan.
type StudyPlanEntry struct {
	Day        int      `json:"day"`
	Focus      string   `json:"focus"`
	Materials  []string `json:"materials"`
	Activities []string `json:"activities"`
}

// fold lower-cases s for comparisons. A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
