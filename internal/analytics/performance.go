package analytics

import "math"

type band struct {
	min     float64
	level   PerformanceLevel
	message string
}

// bands are evaluated top to bottom; the first band whose minimum is reached wins.
var bands = []band{
	{90, LevelExcellent, "Outstanding performance! Keep up the great work!"},
	{75, LevelGood, "Good job! A little more practice will make you excellent."},
	{60, LevelAverage, "You're on the right track. Focus on your weak areas."},
	{40, LevelBelowAverage, "More practice needed. Review the concepts thoroughly."},
	{math.Inf(-1), LevelNeedsImprovement, "Don't worry! Start with basics and build gradually."},
}

// ClassifyPerformance grades an attempt into a performance band.
//
// StrengthsCount is totalQuestions minus weakAreaCount, a question count minus
// a topic count. Dashboards already depend on that value, so it is kept as is.
func ClassifyPerformance(score, totalQuestions, weakAreaCount int) (PerformanceMetrics, error) {
	pct, err := percentage(score, totalQuestions)
	if err != nil {
		return PerformanceMetrics{}, err
	}
	if weakAreaCount < 0 {
		return PerformanceMetrics{}, preconditionf("weak area count must be non-negative, got %d", weakAreaCount)
	}

	metrics := PerformanceMetrics{
		Percentage:     int(math.Round(pct)),
		WeakAreasCount: weakAreaCount,
		StrengthsCount: totalQuestions - weakAreaCount,
	}
	for _, b := range bands {
		if pct >= b.min {
			metrics.PerformanceLevel = b.level
			metrics.Message = b.message
			break
		}
	}
	return metrics, nil
}

func percentage(score, totalQuestions int) (float64, error) {
	if totalQuestions < 1 {
		return 0, preconditionf("total questions must be at least 1, got %d", totalQuestions)
	}
	if score < 0 || score > totalQuestions {
		return 0, preconditionf("score %d outside [0, %d]", score, totalQuestions)
	}
	return float64(score) / float64(totalQuestions) * 100, nil
}
