package recommender

import "strings"

const materialsPerDay = 2

// Format prepares ranked materials for display.
func Format(materials []ScoredDocument, weakAreas []string) Recommendations {
	summary := "Great job! Here are some materials to further enhance your knowledge:"
	if len(weakAreas) > 0 {
		summary = "Based on your performance, we recommend focusing on: " +
			strings.Join(weakAreas, ", ") +
			". Here are curated materials to help you improve:"
	}

	formatted := make([]FormattedMaterial, len(materials))
	for i, m := range materials {
		formatted[i] = FormattedMaterial{
			Title:       m.Topic,
			Topic:       m.Topic,
			Difficulty:  m.Difficulty,
			Preview:     preview(m.Content),
			KeyConcepts: ExtractKeyConcepts(m.Content),
		}
	}

	return Recommendations{Summary: summary, Materials: formatted}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > PreviewLength {
		runes = runes[:PreviewLength]
	}
	return string(runes) + "..."
}

// BuildStudyPlan schedules one weak area per day, most weak first, for at most
// seven days. Each day lists up to two ranked materials whose topic contains
// the day's focus.
func BuildStudyPlan(weakAreas []string, materials []ScoredDocument) []StudyPlanEntry {
	n := min(len(weakAreas), MaxPlanDays)
	plan := make([]StudyPlanEntry, 0, n)

	for i, area := range weakAreas[:n] {
		focus := fold(area)
		titles := make([]string, 0, materialsPerDay)
		for _, m := range materials {
			if len(titles) == materialsPerDay {
				break
			}
			if strings.Contains(fold(m.Topic), focus) {
				titles = append(titles, m.Topic)
			}
		}

		plan = append(plan, StudyPlanEntry{
			Day:       i + 1,
			Focus:     area,
			Materials: titles,
			Activities: []string{
				"Read knowledge base material on " + area,
				"Practice 5-10 questions on " + area,
				"Take notes on key concepts",
				"Review and summarize your understanding",
			},
		})
	}
	return plan
}

// SearchQuery builds the prompt used to look up further explanations.
func SearchQuery(weakAreas []string) string {
	if len(weakAreas) == 0 {
		return ""
	}
	return "Explain concepts related to: " + strings.Join(weakAreas, ", ")
}
