package repository

import (
	"time"

	"quizgen_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// WithTx 返回绑定到指定事务的仓库副本
func (r *SessionRepository) WithTx(tx *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: tx}
}

// SessionStats 会话维度聚合，COALESCE 保证空集返回 0
type SessionStats struct {
	TotalSessions        int64   `json:"totalSessions"`
	TotalDurationMs      int64   `json:"totalDurationMs"`
	TotalPauses          int64   `json:"totalPauses"`
	TotalPauseDurationMs int64   `json:"totalPauseDurationMs"`
	AverageDurationMs    float64 `json:"averageSessionDurationMs"`
}

func (r *SessionRepository) Create(session *model.AttemptSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.AttemptSession, error) {
	var s model.AttemptSession
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) FindByAttemptID(attemptID uint) ([]model.AttemptSession, error) {
	var sessions []model.AttemptSession
	err := r.DB.Where("attempt_id = ?", attemptID).Order("session_start ASC").Find(&sessions).Error
	return sessions, err
}

// FindActive 返回最近一条 session_end 为空的会话，不存在时返回 nil
func (r *SessionRepository) FindActive(attemptID uint) (*model.AttemptSession, error) {
	var s model.AttemptSession
	err := r.DB.Where("attempt_id = ? AND session_end IS NULL", attemptID).
		Order("session_start DESC").First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// closeUpdates 构造稀疏更新字段集：仅包含调用方提供的字段
func closeUpdates(end *time.Time, durationMs *int64, lastActivity *time.Time) map[string]interface{} {
	updates := map[string]interface{}{}
	if end != nil {
		updates["session_end"] = *end
	}
	if durationMs != nil {
		updates["session_duration_ms"] = *durationMs
	}
	if lastActivity != nil {
		updates["last_activity"] = *lastActivity
	}
	return updates
}

// Close 稀疏更新：仅写入调用方提供的字段，零字段时退化为读取
func (r *SessionRepository) Close(id uint, end *time.Time, durationMs *int64, lastActivity *time.Time) (*model.AttemptSession, error) {
	updates := closeUpdates(end, durationMs, lastActivity)

	if len(updates) > 0 {
		if err := r.DB.Model(&model.AttemptSession{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(id)
}

// CloseActive 关闭最近的活跃会话，耗时按服务端时钟计算；不存在活跃会话时为无操作
func (r *SessionRepository) CloseActive(attemptID uint, end time.Time, lastActivity *time.Time) error {
	session, err := r.FindActive(attemptID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	durationMs := end.Sub(session.SessionStart).Milliseconds()
	_, err = r.Close(session.ID, &end, &durationMs, lastActivity)
	return err
}

// RecordPause 累加暂停次数与暂停时长，并刷新最后活跃时间
func (r *SessionRepository) RecordPause(id uint, pauseMs int64) error {
	return r.DB.Model(&model.AttemptSession{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"pause_count":             gorm.Expr("pause_count + 1"),
			"total_pause_duration_ms": gorm.Expr("total_pause_duration_ms + ?", pauseMs),
			"last_activity":           time.Now(),
		}).Error
}

func (r *SessionRepository) GetStats(attemptID uint) (*SessionStats, error) {
	var stats SessionStats

	err := r.DB.Model(&model.AttemptSession{}).
		Select(`COUNT(*) AS total_sessions,
			COALESCE(SUM(session_duration_ms), 0) AS total_duration_ms,
			COALESCE(SUM(pause_count), 0) AS total_pauses,
			COALESCE(SUM(total_pause_duration_ms), 0) AS total_pause_duration_ms,
			COALESCE(AVG(session_duration_ms), 0) AS average_duration_ms`).
		Where("attempt_id = ?", attemptID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
