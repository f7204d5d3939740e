package service

import (
	"testing"

	"quizgen_backend/internal/model"
)

func TestNormalizeTrueFalse(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"bool true", true, "TRUE"},
		{"bool false", false, "FALSE"},
		{"lowercase string", "true", "TRUE"},
		{"uppercase string", "FALSE", "FALSE"},
		{"mixed case", "TrUe", "TRUE"},
		{"arbitrary string", "yes", "YES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTrueFalse(tt.input); got != tt.want {
				t.Errorf("normalizeTrueFalse(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnswerPresent(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"non-empty string", "A", true},
		{"bool false", false, true},
		{"zero number", float64(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := answerPresent(tt.input); got != tt.want {
				t.Errorf("answerPresent(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsAnswerCorrect(t *testing.T) {
	tfQuestion := model.QuizQuestion{
		ID:            "q1",
		QuestionType:  model.QuestionTypeTrueFalse,
		CorrectAnswer: true,
	}
	mcQuestion := model.QuizQuestion{
		ID:            "q2",
		QuestionType:  model.QuestionTypeMultipleChoice,
		Options:       []string{"Paris", "London", "Berlin"},
		CorrectAnswer: "Paris",
	}

	tests := []struct {
		name      string
		question  model.QuizQuestion
		submitted interface{}
		want      bool
	}{
		{"tf bool matches bool", tfQuestion, true, true},
		{"tf string matches bool", tfQuestion, "true", true},
		{"tf uppercase string matches bool", tfQuestion, "TRUE", true},
		{"tf wrong bool", tfQuestion, false, false},
		{"tf wrong string", tfQuestion, "false", false},
		{"tf nil submission", tfQuestion, nil, false},
		{"mc exact match", mcQuestion, "Paris", true},
		{"mc wrong option", mcQuestion, "London", false},
		{"mc case sensitive", mcQuestion, "paris", false},
		{"mc empty string", mcQuestion, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAnswerCorrect(tt.question, tt.submitted); got != tt.want {
				t.Errorf("isAnswerCorrect(%s, %v) = %v, want %v", tt.question.ID, tt.submitted, got, tt.want)
			}
		})
	}
}

func TestScoreAnswers(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: "q1", QuestionType: model.QuestionTypeTrueFalse, CorrectAnswer: true},
		{ID: "q2", QuestionType: model.QuestionTypeMultipleChoice, CorrectAnswer: "B"},
		{ID: "q3", QuestionType: model.QuestionTypeMultipleChoice, CorrectAnswer: "C"},
	}

	tests := []struct {
		name    string
		answers map[string]interface{}
		want    int
	}{
		{
			name:    "all correct",
			answers: map[string]interface{}{"q1": "TRUE", "q2": "B", "q3": "C"},
			want:    3,
		},
		{
			name:    "two of three",
			answers: map[string]interface{}{"q1": true, "q2": "B", "q3": "A"},
			want:    2,
		},
		{
			name:    "missing answers count as wrong",
			answers: map[string]interface{}{"q2": "B"},
			want:    1,
		},
		{
			name:    "unknown question ids are ignored",
			answers: map[string]interface{}{"q99": "B"},
			want:    0,
		},
		{
			name:    "empty map",
			answers: map[string]interface{}{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreAnswers(questions, tt.answers); got != tt.want {
				t.Errorf("scoreAnswers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name           string
		correct, total int
		want           int
	}{
		{"perfect", 10, 10, 100},
		{"zero correct", 0, 10, 0},
		{"two thirds rounds up", 2, 3, 67},
		{"one third rounds down", 1, 3, 33},
		{"half", 1, 2, 50},
		{"zero total", 0, 0, 0},
		{"negative total", 1, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeScore(tt.correct, tt.total); got != tt.want {
				t.Errorf("computeScore(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}
