package repository

import (
	"time"

	"quizgen_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// EventStats 事件维度聚合
type EventStats struct {
	TotalEvents          int64                 `json:"totalEvents"`
	EventsByType         map[string]int64      `json:"eventsByType"`
	TotalTimeSpentMs     int64                 `json:"totalTimeSpentMs"`
	AveragePerQuestionMs float64               `json:"averageTimePerQuestionMs"`
	QuestionPerformance  []QuestionPerformance `json:"questionPerformance"`
}

// QuestionPerformance 按题目聚合的事件耗时
type QuestionPerformance struct {
	QuestionID     string `json:"questionId"`
	QuestionNumber int    `json:"questionNumber"`
	EventCount     int64  `json:"eventCount"`
	TimeSpentMs    int64  `json:"timeSpentMs"`
}

// TimelineEntry 面向展示的事件时间线投影
type TimelineEntry struct {
	Timestamp      time.Time      `json:"timestamp"`
	EventType      string         `json:"eventType"`
	QuestionNumber *int           `json:"questionNumber,omitempty"`
	TimeSpentMs    *int64         `json:"timeSpentMs,omitempty"`
	EventData      datatypes.JSON `json:"eventData,omitempty"`
}

func (r *EventRepository) Append(event *model.AttemptEvent) error {
	return r.DB.Create(event).Error
}

// List 按 event_timestamp 升序返回，limit/offset 仅在提供时生效
func (r *EventRepository) List(attemptID uint, limit, offset int) ([]model.AttemptEvent, error) {
	var events []model.AttemptEvent
	query := r.DB.Where("attempt_id = ?", attemptID).Order("event_timestamp ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&events).Error
	return events, err
}

func (r *EventRepository) GetStats(attemptID uint) (*EventStats, error) {
	stats := &EventStats{EventsByType: map[string]int64{}}

	// 1) 总数
	if err := r.DB.Model(&model.AttemptEvent{}).Where("attempt_id = ?", attemptID).
		Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}

	// 2) 按类型计数
	var typeCounts []struct {
		EventType string
		Count     int64
	}
	if err := r.DB.Model(&model.AttemptEvent{}).
		Select("event_type, COUNT(*) AS count").
		Where("attempt_id = ?", attemptID).
		Group("event_type").
		Scan(&typeCounts).Error; err != nil {
		return nil, err
	}
	for _, tc := range typeCounts {
		stats.EventsByType[tc.EventType] = tc.Count
	}

	// 3) 按题目聚合耗时
	var perf []QuestionPerformance
	if err := r.DB.Model(&model.AttemptEvent{}).
		Select(`question_id, question_number, COUNT(*) AS event_count,
			COALESCE(SUM(time_spent_ms), 0) AS time_spent_ms`).
		Where("attempt_id = ? AND question_id IS NOT NULL", attemptID).
		Group("question_id, question_number").
		Scan(&perf).Error; err != nil {
		return nil, err
	}
	stats.QuestionPerformance = perf

	for _, p := range perf {
		stats.TotalTimeSpentMs += p.TimeSpentMs
	}
	// 平均值在进程内计算，除零保护
	if n := len(perf); n > 0 {
		stats.AveragePerQuestionMs = float64(stats.TotalTimeSpentMs) / float64(n)
	}

	return stats, nil
}

func (r *EventRepository) GetTimeline(attemptID uint) ([]TimelineEntry, error) {
	events, err := r.List(attemptID, 0, 0)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelineEntry, 0, len(events))
	for _, e := range events {
		timeline = append(timeline, TimelineEntry{
			Timestamp:      e.EventTimestamp,
			EventType:      e.EventType,
			QuestionNumber: e.QuestionNumber,
			TimeSpentMs:    e.TimeSpentMs,
			EventData:      e.EventData,
		})
	}
	return timeline, nil
}

// SumTimeByQuestion 汇总每题事件耗时，提交时用于重建 question_timings
func (r *EventRepository) SumTimeByQuestion(attemptID uint) (map[string]int64, error) {
	var rows []struct {
		QuestionID  string
		TimeSpentMs int64
	}
	err := r.DB.Model(&model.AttemptEvent{}).
		Select("question_id, COALESCE(SUM(time_spent_ms), 0) AS time_spent_ms").
		Where("attempt_id = ? AND question_id IS NOT NULL", attemptID).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]int64, len(rows))
	for _, row := range rows {
		sums[row.QuestionID] = row.TimeSpentMs
	}
	return sums, nil
}

func (r *EventRepository) DeleteByAttemptID(attemptID uint) error {
	return r.DB.Unscoped().Where("attempt_id = ?", attemptID).Delete(&model.AttemptEvent{}).Error
}
