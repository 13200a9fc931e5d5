package analytics

// RecommendDifficulty picks the difficulty of the next quiz from the current
// one and the attempt's score. Any value other than EASY or MEDIUM is treated
// as HARD.
func RecommendDifficulty(current Difficulty, score, totalQuestions int) (Difficulty, error) {
	pct, err := percentage(score, totalQuestions)
	if err != nil {
		return "", err
	}

	switch current {
	case DifficultyEasy:
		if pct >= 80 {
			return DifficultyMedium, nil
		}
		return DifficultyEasy, nil
	case DifficultyMedium:
		if pct >= 85 {
			return DifficultyHard, nil
		}
		if pct < 60 {
			return DifficultyEasy, nil
		}
		return DifficultyMedium, nil
	default:
		if pct < 60 {
			return DifficultyMedium, nil
		}
		return DifficultyHard, nil
	}
}

// Analyze runs the full attempt pipeline: weak areas, metrics, coaching
// recommendations and the next difficulty.
func Analyze(answers []GradedAnswer, score, totalQuestions int, current Difficulty) (Analysis, error) {
	weakAreas := ScoreAttempt(answers)

	metrics, err := ClassifyPerformance(score, totalQuestions, len(weakAreas))
	if err != nil {
		return Analysis{}, err
	}
	next, err := RecommendDifficulty(current, score, totalQuestions)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		WeakAreas:       weakAreas,
		Topics:          TopicBreakdown(answers),
		Metrics:         metrics,
		Recommendations: BuildRecommendations(weakAreas),
		NextDifficulty:  next,
	}, nil
}
