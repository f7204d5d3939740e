package model

import (
	"gorm.io/datatypes"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

// QuizQuestion 单个题目，序列化后存储在 quizzes.quiz_data 中
type QuizQuestion struct {
	ID            string      `json:"id"`
	QuestionType  string      `json:"questionType"`
	Question      string      `json:"question"`
	Options       []string    `json:"options,omitempty"`
	CorrectAnswer interface{} `json:"correctAnswer"`
	Explanation   string      `json:"explanation,omitempty"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	UserID         uint           `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	DocumentID     *uint          `gorm:"index;type:bigint unsigned" json:"documentId,omitempty"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Difficulty     string         `gorm:"size:20;default:'medium'" json:"difficulty"`
	TimeLimit      int            `json:"timeLimit"` // 分钟，0 表示不限时
	TotalQuestions int            `json:"totalQuestions"`
	QuizData       datatypes.JSON `gorm:"type:json" json:"quizData"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
