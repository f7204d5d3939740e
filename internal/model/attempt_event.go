package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventTypeStart  = "start"
	EventTypeSubmit = "submit"
	EventTypePause  = "pause"
)

// AttemptEvent 作答过程中的不可变事件，时间戳由客户端提供
// 仅追加，排序以 event_timestamp 为准而非插入顺序
// swagger:model AttemptEvent
type AttemptEvent struct {
	BaseModel
	AttemptID uint         `gorm:"index;type:bigint unsigned;not null" json:"attemptId"`
	Attempt   *QuizAttempt `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"-"`

	EventType      string         `gorm:"size:64;not null;index" json:"eventType"`
	EventTimestamp time.Time      `gorm:"not null;index" json:"eventTimestamp"`
	EventData      datatypes.JSON `gorm:"type:json" json:"eventData,omitempty"`

	QuestionID     *string `gorm:"size:64" json:"questionId,omitempty"`
	QuestionNumber *int    `json:"questionNumber,omitempty"`
	TimeSpentMs    *int64  `json:"timeSpentMs,omitempty"`
}

func (AttemptEvent) TableName() string {
	return "quiz_attempt_events"
}
