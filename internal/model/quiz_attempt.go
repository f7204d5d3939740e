package model

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
	AttemptTimeout    AttemptStatus = "timeout"
)

// QuestionTiming 单题作答耗时，由事件日志在提交时重建
type QuestionTiming struct {
	QuestionID  string    `json:"questionId"`
	TimeSpentMs int64     `json:"timeSpentMs"`
	AnsweredAt  time.Time `json:"answeredAt"`
}

// QuizAttempt 一次测验作答，从开始到提交
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID uint `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	QuizID uint `gorm:"index;type:bigint unsigned;not null" json:"quizId"`

	Status AttemptStatus `gorm:"type:enum('in_progress','completed','abandoned','timeout');default:'in_progress';index" json:"status"`

	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	TimeTakenSeconds int        `json:"timeTakenSeconds"`
	TimeTakenMs      int64      `json:"timeTakenMilliseconds"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`

	TotalQuestions   int `json:"totalQuestions"`
	CorrectAnswers   int `json:"correctAnswers"`
	IncorrectAnswers int `json:"incorrectAnswers"`
	Score            int `json:"score"` // 百分制，四舍五入

	Answers         datatypes.JSON `gorm:"type:json" json:"answers"`
	QuizData        datatypes.JSON `gorm:"type:json" json:"quizData"` // 开始时的题目快照
	QuestionTimings datatypes.JSON `gorm:"type:json" json:"questionTimings"`

	IPAddress  string         `gorm:"size:45" json:"ipAddress"`
	UserAgent  string         `gorm:"type:text" json:"userAgent"`
	DeviceInfo datatypes.JSON `gorm:"type:json" json:"deviceInfo"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
