package service

import (
	"strings"
	"testing"

	"quizgen_backend/internal/model"
)

func makeCompletedAttempt(score, correct, total int) *model.QuizAttempt {
	return &model.QuizAttempt{
		Status:           model.AttemptCompleted,
		Score:            score,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		IncorrectAnswers: total - correct,
		TimeTakenSeconds: 120,
	}
}

func TestFallbackSummaryBands(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  string
	}{
		{"excellent at 90", 90, "excellent"},
		{"good at 75", 75, "good"},
		{"fair at 50", 50, "fair"},
		{"review below 50", 40, "needs significant review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := makeCompletedAttempt(tt.score, tt.score/10, 10)
			got := fallbackSummary(attempt, nil, nil)
			if !strings.Contains(got, tt.want) {
				t.Errorf("summary for score %d missing band %q:\n%s", tt.score, tt.want, got)
			}
		})
	}
}

func TestFallbackSummaryDeterministic(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: "q1", QuestionType: model.QuestionTypeTrueFalse, CorrectAnswer: true},
		{ID: "q2", QuestionType: model.QuestionTypeMultipleChoice, CorrectAnswer: "A"},
		{ID: "q3", QuestionType: model.QuestionTypeMultipleChoice, CorrectAnswer: "B"},
	}
	answers := map[string]interface{}{"q1": "TRUE", "q2": "A", "q3": "C"}
	attempt := makeCompletedAttempt(67, 2, 3)

	first := fallbackSummary(attempt, questions, answers)
	for i := 0; i < 5; i++ {
		if got := fallbackSummary(attempt, questions, answers); got != first {
			t.Fatalf("summary is not deterministic, run %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}

	// 题型统计按名称排序，multiple_choice 在 true_false 之前
	mcIdx := strings.Index(first, "multiple_choice: 1/2 correct.")
	tfIdx := strings.Index(first, "true_false: 1/1 correct.")
	if mcIdx < 0 || tfIdx < 0 {
		t.Fatalf("per-type stats missing:\n%s", first)
	}
	if mcIdx > tfIdx {
		t.Errorf("per-type stats not sorted by type name:\n%s", first)
	}
}

func TestFallbackSummaryAdvice(t *testing.T) {
	low := fallbackSummary(makeCompletedAttempt(40, 4, 10), nil, nil)
	if !strings.Contains(low, "Review the questions you missed") {
		t.Errorf("low score summary missing review advice:\n%s", low)
	}

	high := fallbackSummary(makeCompletedAttempt(90, 9, 10), nil, nil)
	if !strings.Contains(high, "Keep up the consistent practice") {
		t.Errorf("high score summary missing retention advice:\n%s", high)
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: "q1", QuestionType: model.QuestionTypeTrueFalse, Question: "The sky is green.", CorrectAnswer: false},
	}
	answers := map[string]interface{}{"q1": true}
	attempt := makeCompletedAttempt(0, 0, 1)

	prompt := buildAnalysisPrompt(attempt, questions, answers)

	for _, want := range []string{"score 0%", "0/1 correct", "The sky is green.", "correct answer: false", "submitted answer: true"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalysisCacheKey(t *testing.T) {
	if got := analysisCacheKey(7, 42); got != "analysis:7:42" {
		t.Errorf("analysisCacheKey(7, 42) = %q, want %q", got, "analysis:7:42")
	}
}
