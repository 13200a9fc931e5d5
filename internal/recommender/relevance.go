package recommender

import (
	"fmt"
	"slices"
	"strings"
)

const (
	topicMatchPoints   = 10
	keywordMatchPoints = 3
	contentMatchPoints = 2
)

// Score computes a document's relevance to the weak areas. Every comparison
// is case-insensitive; topic and keyword matches work in both directions.
func Score(doc KnowledgeDocument, weakAreas []string) int {
	topic := fold(doc.Topic)
	content := fold(doc.Content)
	keywords := make([]string, len(doc.Keywords))
	for i, k := range doc.Keywords {
		keywords[i] = fold(k)
	}

	score := 0
	for _, area := range weakAreas {
		w := fold(area)

		if strings.Contains(topic, w) || strings.Contains(w, topic) {
			score += topicMatchPoints
		}
		for _, k := range keywords {
			if strings.Contains(w, k) || strings.Contains(k, w) {
				score += keywordMatchPoints
			}
		}
		if strings.Contains(content, w) {
			score += contentMatchPoints
		}
	}
	return score
}

// Retrieve ranks the corpus against the weak areas and returns at most limit
// documents, highest score first. Documents scoring zero are dropped and equal
// scores keep corpus order.
func Retrieve(corpus []KnowledgeDocument, weakAreas []string, limit int) ([]ScoredDocument, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative, got %d", ErrPrecondition, limit)
	}
	if len(weakAreas) == 0 {
		return []ScoredDocument{}, nil
	}
	for i, w := range weakAreas {
		if w == "" {
			return nil, fmt.Errorf("%w: weak area at index %d is empty", ErrPrecondition, i)
		}
	}

	scored := make([]ScoredDocument, 0, len(corpus))
	for _, doc := range corpus {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if s := Score(doc, weakAreas); s > 0 {
			scored = append(scored, ScoredDocument{KnowledgeDocument: doc, RelevanceScore: s})
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredDocument) int {
		return b.RelevanceScore - a.RelevanceScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
