// Package analytics turns a graded quiz attempt into weak topics, a performance
// classification and a next-difficulty recommendation. Every function is pure and
// safe to call concurrently.
package analytics

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks a caller contract violation such as a zero question count.
var ErrPrecondition = errors.New("precondition violated")

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPrecondition}, args...)...)
}

// GradedAnswer is one question of an attempt after grading.
type GradedAnswer struct {
	QuestionID string `json:"questionId"`
	Topic      string `json:"topic"`
	IsCorrect  bool   `json:"isCorrect"`
}

// TopicStat aggregates answers for a single topic.
type TopicStat struct {
	Topic   string `json:"topic"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// Accuracy returns the share of correct answers as a percentage.
func (s TopicStat) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// WeakArea is a topic answered below the weakness threshold.
type WeakArea struct {
	Topic              string  `json:"topic"`
	WeaknessPercentage float64 `json:"weaknessPercentage"`
}

// Difficulty is a quiz difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// PerformanceLevel is the band an attempt's score falls into.
type PerformanceLevel string

const (
	LevelExcellent        PerformanceLevel = "Excellent"
	LevelGood             PerformanceLevel = "Good"
	LevelAverage          PerformanceLevel = "Average"
	LevelBelowAverage     PerformanceLevel = "Below Average"
	LevelNeedsImprovement PerformanceLevel = "Needs Improvement"
)

// PerformanceMetrics summarizes an attempt for display.
type PerformanceMetrics struct {
	Percentage       int              `json:"percentage"`
	PerformanceLevel PerformanceLevel `json:"performanceLevel"`
	Message          string           `json:"message"`
	WeakAreasCount   int              `json:"weakAreasCount"`
	StrengthsCount   int              `json:"strengthsCount"`
}

// Analysis bundles everything derived from one attempt.
type Analysis struct {
	WeakAreas       []string           `json:"weakAreas"`
	Topics          []TopicStat        `json:"topics"`
	Metrics         PerformanceMetrics `json:"metrics"`
	Recommendations []string           `json:"recommendations"`
	NextDifficulty  Difficulty         `json:"nextDifficulty"`
}
