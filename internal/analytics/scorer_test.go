package analytics_test

import (
	"reflect"
	"testing"

	"github.com/p-n-ai/pai-insight/internal/analytics"
)

func answers(specs ...any) []analytics.GradedAnswer {
	var out []analytics.GradedAnswer
	for i := 0; i+1 < len(specs); i += 2 {
		out = append(out, analytics.GradedAnswer{
			QuestionID: string(rune('a' + i/2)),
			Topic:      specs[i].(string),
			IsCorrect:  specs[i+1].(bool),
		})
	}
	return out
}

func TestScoreAttempt_OrdersByWeakness(t *testing.T) {
	got := analytics.ScoreAttempt(answers(
		"A", true,
		"A", false,
		"B", false,
		"B", false,
	))
	want := []string{"B", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScoreAttempt() = %v, want %v", got, want)
	}
}

func TestScoreAttempt_Empty(t *testing.T) {
	got := analytics.ScoreAttempt(nil)
	if got == nil {
		t.Fatal("ScoreAttempt(nil) returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("ScoreAttempt(nil) = %v, want empty", got)
	}
}

func TestScoreAttempt_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		total    int
		wantWeak bool
	}{
		{"exactly 60 percent", 3, 5, false},
		{"just below 60 percent", 5, 9, true}, // 55.5%
		{"just below 60 percent, large sample", 59999, 100000, true},
		{"all correct", 4, 4, false},
		{"none correct", 0, 3, true},
		{"half", 1, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in []analytics.GradedAnswer
			for i := 0; i < tt.total; i++ {
				in = append(in, analytics.GradedAnswer{Topic: "Topic", IsCorrect: i < tt.correct})
			}
			got := analytics.ScoreAttempt(in)
			if (len(got) == 1) != tt.wantWeak {
				t.Errorf("ScoreAttempt() = %v, wantWeak %v", got, tt.wantWeak)
			}
		})
	}
}

func TestScoreAttempt_CaseSensitiveTopics(t *testing.T) {
	got := analytics.ScoreAttempt(answers(
		"stack", false,
		"Stack", true,
	))
	want := []string{"stack"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScoreAttempt() = %v, want %v", got, want)
	}
}

func TestScoreAttempt_TiesKeepFirstSeenOrder(t *testing.T) {
	got := analytics.ScoreAttempt(answers(
		"Queues", false,
		"Graphs", false,
		"Trees", true,
		"Heaps", false,
		"Graphs", false,
	))
	want := []string{"Queues", "Graphs", "Heaps"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScoreAttempt() = %v, want %v", got, want)
	}
}

func TestScoreAttempt_EmptyTopicIsCounted(t *testing.T) {
	got := analytics.ScoreAttempt(answers(
		"", false,
		"Loops", true,
	))
	want := []string{""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScoreAttempt() = %q, want %q", got, want)
	}
}

func TestWeakAreas_NonIncreasingWeakness(t *testing.T) {
	in := answers(
		"A", true, "A", false, "A", false, // 33% -> 66.7
		"B", false, // 0% -> 100
		"C", true, "C", true, "C", false, // 66% -> not weak
		"D", true, "D", false, "D", false, "D", false, // 25% -> 75
		"E", true, "E", false, // 50% -> 50
	)
	weak := analytics.WeakAreas(in)
	if len(weak) != 4 {
		t.Fatalf("len(WeakAreas()) = %d, want 4", len(weak))
	}
	for i := 1; i < len(weak); i++ {
		if weak[i].WeaknessPercentage > weak[i-1].WeaknessPercentage {
			t.Errorf("weak[%d] = %v is weaker than weak[%d] = %v", i, weak[i], i-1, weak[i-1])
		}
	}
	for _, w := range weak {
		if w.WeaknessPercentage <= 40 || w.WeaknessPercentage > 100 {
			t.Errorf("WeaknessPercentage = %v for %q, want in (40,100]", w.WeaknessPercentage, w.Topic)
		}
	}
	if weak[0].Topic != "B" {
		t.Errorf("weak[0].Topic = %q, want B", weak[0].Topic)
	}
}

func TestTopicBreakdown(t *testing.T) {
	got := analytics.TopicBreakdown(answers(
		"Sorting", true,
		"Hashing", false,
		"Sorting", false,
	))
	want := []analytics.TopicStat{
		{Topic: "Sorting", Correct: 1, Total: 2},
		{Topic: "Hashing", Correct: 0, Total: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopicBreakdown() = %+v, want %+v", got, want)
	}
}

func TestBuildRecommendations(t *testing.T) {
	tests := []struct {
		name      string
		weakAreas []string
		wantLen   int
		wantFirst string
	}{
		{"mastery", nil, 3, "Great job! You've mastered all topics in this quiz."},
		{"one weak area", []string{"Stacks"}, 4, "Focus on improving your understanding of: Stacks"},
		{"three weak areas", []string{"A", "B", "C"}, 4, "Focus on improving your understanding of: A, B, C"},
		{"four weak areas", []string{"D", "A", "B", "C"}, 6, "Focus on improving your understanding of: D, A, B, C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analytics.BuildRecommendations(tt.weakAreas)
			if len(got) != tt.wantLen {
				t.Fatalf("len(BuildRecommendations()) = %d, want %d", len(got), tt.wantLen)
			}
			if got[0] != tt.wantFirst {
				t.Errorf("BuildRecommendations()[0] = %q, want %q", got[0], tt.wantFirst)
			}
		})
	}
}

func TestBuildRecommendations_Coaching(t *testing.T) {
	got := analytics.BuildRecommendations([]string{"A", "B", "C", "D"})
	if got[4] != "Start with one or two topics to avoid feeling overwhelmed" {
		t.Errorf("BuildRecommendations()[4] = %q", got[4])
	}
	if got[5] != "Set specific learning goals for each weak area" {
		t.Errorf("BuildRecommendations()[5] = %q", got[5])
	}
}
