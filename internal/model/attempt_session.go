package model

import (
	"time"

	"gorm.io/datatypes"
)

// AttemptSession 一次作答中的连续交互窗口，支持暂停/恢复
// 不变式：同一 attempt 任一时刻至多一个 session_end 为空的会话
// swagger:model AttemptSession
type AttemptSession struct {
	BaseModel
	AttemptID uint         `gorm:"index;type:bigint unsigned;not null" json:"attemptId"`
	Attempt   *QuizAttempt `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"-"`

	SessionStart      time.Time  `gorm:"not null" json:"sessionStart"`
	SessionEnd        *time.Time `json:"sessionEnd,omitempty"`
	SessionDurationMs int64      `json:"sessionDurationMs"`
	PauseCount        int        `json:"pauseCount"`
	TotalPauseMs      int64      `gorm:"column:total_pause_duration_ms" json:"totalPauseDurationMs"`
	LastActivity      *time.Time `json:"lastActivity,omitempty"`

	BrowserInfo      datatypes.JSON `gorm:"type:json" json:"browserInfo"`
	ScreenResolution string         `gorm:"size:20" json:"screenResolution"`
	Timezone         string         `gorm:"size:64" json:"timezone"`
}

func (AttemptSession) TableName() string {
	return "quiz_attempt_sessions"
}
