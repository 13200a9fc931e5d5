package analytics

import (
	"slices"
	"strings"
)

// weakThreshold is the accuracy (percent) a topic must reach to not be weak.
const weakThreshold = 60

// TopicBreakdown groups answers by exact topic string, in first-seen order.
func TopicBreakdown(answers []GradedAnswer) []TopicStat {
	stats := make([]TopicStat, 0)
	index := make(map[string]int)

	for _, a := range answers {
		i, ok := index[a.Topic]
		if !ok {
			i = len(stats)
			index[a.Topic] = i
			stats = append(stats, TopicStat{Topic: a.Topic})
		}
		stats[i].Total++
		if a.IsCorrect {
			stats[i].Correct++
		}
	}
	return stats
}

// WeakAreas returns topics with accuracy below 60%, most weak first.
// Topics with equal weakness keep the order they were first answered in.
func WeakAreas(answers []GradedAnswer) []WeakArea {
	weak := make([]WeakArea, 0)
	for _, s := range TopicBreakdown(answers) {
		accuracy := s.Accuracy()
		if accuracy < weakThreshold {
			weak = append(weak, WeakArea{
				Topic:              s.Topic,
				WeaknessPercentage: 100 - accuracy,
			})
		}
	}

	slices.SortStableFunc(weak, func(a, b WeakArea) int {
		switch {
		case a.WeaknessPercentage > b.WeaknessPercentage:
			return -1
		case a.WeaknessPercentage < b.WeaknessPercentage:
			return 1
		default:
			return 0
		}
	})
	return weak
}

// ScoreAttempt returns the weak topic names of an attempt, most weak first.
func ScoreAttempt(answers []GradedAnswer) []string {
	weak := WeakAreas(answers)
	topics := make([]string, len(weak))
	for i, w := range weak {
		topics[i] = w.Topic
	}
	return topics
}

// BuildRecommendations returns coaching advice for the given weak areas.
func BuildRecommendations(weakAreas []string) []string {
	if len(weakAreas) == 0 {
		return []string{
			"Great job! You've mastered all topics in this quiz.",
			"Consider taking advanced quizzes to challenge yourself further.",
			"Review concepts periodically to maintain your understanding.",
		}
	}

	recs := []string{
		"Focus on improving your understanding of: " + strings.Join(weakAreas, ", "),
		"Review the knowledge base materials for these topics",
		"Practice more questions in your weak areas",
		"Consider watching video tutorials or reading additional resources",
	}
	if len(weakAreas) > 3 {
		recs = append(recs,
			"Start with one or two topics to avoid feeling overwhelmed",
			"Set specific learning goals for each weak area",
		)
	}
	return recs
}
