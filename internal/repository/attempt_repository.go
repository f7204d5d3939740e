package repository

import (
	"time"

	"quizgen_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// WithTx 返回绑定到指定事务的仓库副本
func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

// UserAttemptStats 用户维度聚合，由 SQL 侧计算
type UserAttemptStats struct {
	TotalAttempts      int64   `json:"totalAttempts"`
	CompletedAttempts  int64   `json:"completedAttempts"`
	AverageScore       float64 `json:"averageScore"`
	BestScore          int     `json:"bestScore"`
	AverageTimeSeconds float64 `json:"averageTimeSeconds"`
}

// QuizAttemptStats 测验维度聚合
type QuizAttemptStats struct {
	TotalAttempts      int64   `json:"totalAttempts"`
	CompletedAttempts  int64   `json:"completedAttempts"`
	AverageScore       float64 `json:"averageScore"`
	HighestScore       int     `json:"highestScore"`
	LowestScore        int     `json:"lowestScore"`
	AverageTimeSeconds float64 `json:"averageTimeSeconds"`
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindByUserID(userID uint, limit, offset int) ([]model.QuizAttempt, int64, error) {
	var attempts []model.QuizAttempt
	var total int64

	q := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := q.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&attempts).Error
	return attempts, total, err
}

// FindActiveByUserAndQuiz 查找同一用户同一测验的进行中作答（仅用于提示，不做拦截）
func (r *AttemptRepository) FindActiveByUserAndQuiz(userID, quizID uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND status = ?", userID, quizID, model.AttemptInProgress).
		Order("started_at DESC").First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) Update(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) Delete(id uint) error {
	// 会话与事件由外键 ON DELETE CASCADE 级联删除
	return r.DB.Unscoped().Delete(&model.QuizAttempt{}, id).Error
}

func (r *AttemptRepository) GetUserStats(userID uint) (*UserAttemptStats, error) {
	var stats UserAttemptStats

	err := r.DB.Model(&model.QuizAttempt{}).
		Select(`COUNT(*) AS total_attempts,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed_attempts,
			COALESCE(AVG(CASE WHEN status = 'completed' THEN score END), 0) AS average_score,
			COALESCE(MAX(CASE WHEN status = 'completed' THEN score END), 0) AS best_score,
			COALESCE(AVG(CASE WHEN status = 'completed' THEN time_taken_seconds END), 0) AS average_time_seconds`).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *AttemptRepository) GetQuizStats(quizID uint) (*QuizAttemptStats, error) {
	var stats QuizAttemptStats

	err := r.DB.Model(&model.QuizAttempt{}).
		Select(`COUNT(*) AS total_attempts,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed_attempts,
			COALESCE(AVG(CASE WHEN status = 'completed' THEN score END), 0) AS average_score,
			COALESCE(MAX(CASE WHEN status = 'completed' THEN score END), 0) AS highest_score,
			COALESCE(MIN(CASE WHEN status = 'completed' THEN score END), 0) AS lowest_score,
			COALESCE(AVG(CASE WHEN status = 'completed' THEN time_taken_seconds END), 0) AS average_time_seconds`).
		Where("quiz_id = ?", quizID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FindStale 返回进行中但已超出限时（含宽限）或长时间无活动的作答，供后台清扫
func (r *AttemptRepository) FindStale(grace time.Duration, idleCutoff time.Duration, limit int) ([]model.QuizAttempt, error) {
	now := time.Now()
	var attempts []model.QuizAttempt
	err := r.DB.Where("status = ?", model.AttemptInProgress).
		Where("(time_limit_seconds > 0 AND started_at < DATE_SUB(?, INTERVAL time_limit_seconds + ? SECOND)) OR (time_limit_seconds = 0 AND started_at < ?)",
			now, int(grace.Seconds()), now.Add(-idleCutoff)).
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// UpdateStatus 仅当当前状态为 from 时更新为 to，避免覆盖并发提交写入的终态
func (r *AttemptRepository) UpdateStatus(id uint, from, to model.AttemptStatus) error {
	return r.DB.Model(&model.QuizAttempt{}).Where("id = ? AND status = ?", id, from).Update("status", to).Error
}
