package service

import (
	"strings"
	"testing"
)

const sampleQuizJSON = `{
	"title": "Go Basics",
	"description": "Fundamentals quiz",
	"questions": [
		{"id": "q1", "questionType": "true_false", "question": "Go has classes.", "correctAnswer": false},
		{"id": "q2", "questionType": "multiple_choice", "question": "Keyword for declaring a function?", "options": ["func", "def", "fn"], "correctAnswer": "func"}
	]
}`

func TestParseGeneratedQuiz(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{
			name:    "plain json",
			raw:     sampleQuizJSON,
			wantErr: false,
			wantLen: 2,
		},
		{
			name:    "json fenced with language tag",
			raw:     "```json\n" + sampleQuizJSON + "\n```",
			wantErr: false,
			wantLen: 2,
		},
		{
			name:    "json fenced without language tag",
			raw:     "```\n" + sampleQuizJSON + "\n```",
			wantErr: false,
			wantLen: 2,
		},
		{
			name:    "commentary before braces",
			raw:     "Here is your quiz:\n" + sampleQuizJSON,
			wantErr: false,
			wantLen: 2,
		},
		{
			name:    "surrounding whitespace",
			raw:     "\n\n  " + sampleQuizJSON + "  \n",
			wantErr: false,
			wantLen: 2,
		},
		{
			name:    "no questions",
			raw:     `{"title": "empty", "questions": []}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "sorry, I cannot generate a quiz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := parseGeneratedQuiz(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(gen.Questions) != tt.wantLen {
				t.Errorf("got %d questions, want %d", len(gen.Questions), tt.wantLen)
			}
			if gen.Title != "Go Basics" {
				t.Errorf("got title %q, want %q", gen.Title, "Go Basics")
			}
		})
	}
}

func TestParseGeneratedQuizAnswerTypes(t *testing.T) {
	gen, err := parseGeneratedQuiz(sampleQuizJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := gen.Questions[0].CorrectAnswer.(bool); !ok {
		t.Errorf("true_false correctAnswer decoded as %T, want bool", gen.Questions[0].CorrectAnswer)
	}
	if got, ok := gen.Questions[1].CorrectAnswer.(string); !ok || got != "func" {
		t.Errorf("multiple_choice correctAnswer = %v (%T), want \"func\"", gen.Questions[1].CorrectAnswer, gen.Questions[1].CorrectAnswer)
	}
	if !strings.Contains(gen.Questions[1].Question, "function") {
		t.Errorf("question text lost in parsing: %q", gen.Questions[1].Question)
	}
}
