package service

import (
	"encoding/json"
	"math"
	"time"

	"quizgen_backend/internal/model"
	"quizgen_backend/internal/repository"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"
	"quizgen_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 后台清扫参数：限时作答超时宽限5分钟，无限时作答24小时无活动视为放弃
const (
	staleGracePeriod = 5 * time.Minute
	staleIdleCutoff  = 24 * time.Hour
	staleSweepBatch  = 200
)

// AttemptService 作答生命周期核心：开始、提交计分、遥测读取、后台清扫
type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	SessionRepo *repository.SessionRepository
	EventRepo   *repository.EventRepository
	QuizRepo    *repository.QuizRepository
	DB          *gorm.DB
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	sessionRepo *repository.SessionRepository,
	eventRepo *repository.EventRepository,
	quizRepo *repository.QuizRepository,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		SessionRepo: sessionRepo,
		EventRepo:   eventRepo,
		QuizRepo:    quizRepo,
		DB:          db,
	}
}

type StartAttemptRequest struct {
	DeviceInfo       map[string]interface{} `json:"deviceInfo"`
	BrowserInfo      map[string]interface{} `json:"browserInfo"`
	ScreenResolution string                 `json:"screenResolution"`
	Timezone         string                 `json:"timezone"`
}

type SubmitAttemptRequest struct {
	Answers     map[string]interface{} `json:"answers"`
	TimeSpent   *int                   `json:"timeSpent"`   // 秒
	TimeSpentMs *int64                 `json:"timeSpentMs"` // 毫秒，优先
}

type LogEventRequest struct {
	EventType      string                 `json:"eventType" binding:"required"`
	EventTimestamp time.Time              `json:"eventTimestamp" binding:"required"`
	EventData      map[string]interface{} `json:"eventData"`
	QuestionID     *string                `json:"questionId"`
	QuestionNumber *int                   `json:"questionNumber"`
	TimeSpentMs    *int64                 `json:"timeSpentMs"`
}

// StartAttempt 创建作答、首个会话与start事件，三次写入在同一事务内完成
func (s *AttemptService) StartAttempt(userID, quizID uint, req StartAttemptRequest, ipAddress, userAgent string) (*model.QuizAttempt, *model.AttemptSession, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, nil, util.ErrQuizNotFound
	}

	// 同一测验允许多次并发作答，已有进行中的作答仅记录不拦截
	if active, err := s.AttemptRepo.FindActiveByUserAndQuiz(userID, quizID); err == nil && active != nil {
		logger.Log.Warn("user already has an in-progress attempt for quiz",
			zap.Uint("userId", userID), zap.Uint("quizId", quizID), zap.Uint("attemptId", active.ID))
	}

	now := time.Now()
	deviceInfo, _ := json.Marshal(req.DeviceInfo)
	browserInfo, _ := json.Marshal(req.BrowserInfo)

	attempt := &model.QuizAttempt{
		UserID:           userID,
		QuizID:           quizID,
		Status:           model.AttemptInProgress,
		StartedAt:        now,
		TimeLimitSeconds: quiz.TimeLimit * 60,
		TotalQuestions:   quiz.TotalQuestions,
		QuizData:         quiz.QuizData, // 开始时快照，后续编辑测验不影响计分
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
		DeviceInfo:       datatypes.JSON(deviceInfo),
	}

	session := &model.AttemptSession{
		SessionStart:     now,
		BrowserInfo:      datatypes.JSON(browserInfo),
		ScreenResolution: req.ScreenResolution,
		Timezone:         req.Timezone,
	}

	startData, _ := json.Marshal(map[string]interface{}{
		"quizId":           quizID,
		"totalQuestions":   quiz.TotalQuestions,
		"timeLimitSeconds": quiz.TimeLimit * 60,
		"deviceInfo":       req.DeviceInfo,
	})

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		session.AttemptID = attempt.ID
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		event := &model.AttemptEvent{
			AttemptID:      attempt.ID,
			EventType:      model.EventTypeStart,
			EventTimestamp: now,
			EventData:      datatypes.JSON(startData),
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return attempt, session, nil
}

// SubmitAttempt 计分并关闭作答。重复提交会被拒绝而非静默覆盖
func (s *AttemptService) SubmitAttempt(userID, attemptID uint, req SubmitAttemptRequest) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if err := ensureSubmittable(attempt, userID); err != nil {
		return nil, err
	}

	questions, err := s.loadQuestions(attempt)
	if err != nil {
		return nil, err
	}

	totalQuestions := len(questions)
	if totalQuestions == 0 {
		totalQuestions = attempt.TotalQuestions
	}
	correct := scoreAnswers(questions, req.Answers)

	now := time.Now()

	timeTakenSeconds, timeTakenMs, hasClientTime := resolveTimeTaken(req)
	completedAt := resolveCompletedAt(attempt.StartedAt, now, timeTakenSeconds, hasClientTime)

	answersJSON, _ := json.Marshal(req.Answers)
	timingsJSON, _ := json.Marshal(s.buildQuestionTimings(attemptID, req.Answers, now))

	attempt.Status = model.AttemptCompleted
	attempt.CompletedAt = &completedAt
	attempt.TimeTakenSeconds = timeTakenSeconds
	attempt.TimeTakenMs = timeTakenMs
	attempt.TotalQuestions = totalQuestions
	attempt.CorrectAnswers = correct
	attempt.IncorrectAnswers = totalQuestions - correct
	attempt.Score = computeScore(correct, totalQuestions)
	attempt.Answers = datatypes.JSON(answersJSON)
	attempt.QuestionTimings = datatypes.JSON(timingsJSON)

	submitData, _ := json.Marshal(map[string]interface{}{
		"score":            attempt.Score,
		"correctAnswers":   correct,
		"totalQuestions":   totalQuestions,
		"timeTakenSeconds": timeTakenSeconds,
	})

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}

		// 关闭活跃会话；不存在时视为无操作
		if err := s.SessionRepo.WithTx(tx).CloseActive(attemptID, now, &now); err != nil {
			return err
		}

		event := &model.AttemptEvent{
			AttemptID:      attemptID,
			EventType:      model.EventTypeSubmit,
			EventTimestamp: now,
			EventData:      datatypes.JSON(submitData),
		}
		return tx.Create(event).Error
	})
	if err != nil {
		monitoring.AttemptSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.AttemptSubmissions.WithLabelValues("completed").Inc()
	return attempt, nil
}

// ensureSubmittable 提交前置检查：先校验归属，再拒绝重复提交
func ensureSubmittable(attempt *model.QuizAttempt, userID uint) error {
	if attempt.UserID != userID {
		return util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptInProgress {
		return util.ErrAttemptAlreadySubmitted
	}
	return nil
}

// resolveTimeTaken 取客户端上报的耗时：毫秒优先，秒次之
func resolveTimeTaken(req SubmitAttemptRequest) (seconds int, ms int64, hasClientTime bool) {
	if req.TimeSpentMs != nil {
		ms = *req.TimeSpentMs
		seconds = int(math.Round(float64(ms) / 1000))
		return seconds, ms, true
	}
	if req.TimeSpent != nil {
		seconds = *req.TimeSpent
		ms = int64(seconds) * 1000
		return seconds, ms, true
	}
	return 0, 0, false
}

// resolveCompletedAt 用 started_at 加上客户端耗时回推完成时间，降低网络延迟偏差；
// 客户端未上报耗时则使用服务端时钟。会话关闭始终使用服务端时钟
func resolveCompletedAt(startedAt, serverNow time.Time, timeTakenSeconds int, hasClientTime bool) time.Time {
	if hasClientTime {
		return startedAt.Add(time.Duration(timeTakenSeconds) * time.Second)
	}
	return serverNow
}

// loadQuestions 优先读取开始时的快照，快照为空时回退到当前题目集
func (s *AttemptService) loadQuestions(attempt *model.QuizAttempt) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	if len(attempt.QuizData) > 0 {
		if err := json.Unmarshal(attempt.QuizData, &questions); err == nil && len(questions) > 0 {
			return questions, nil
		}
	}

	quiz, err := s.QuizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if len(quiz.QuizData) > 0 {
		if err := json.Unmarshal(quiz.QuizData, &questions); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// buildQuestionTimings 由事件日志重建每题耗时；没有事件记录的题目不生成条目
func (s *AttemptService) buildQuestionTimings(attemptID uint, answers map[string]interface{}, answeredAt time.Time) []model.QuestionTiming {
	timings := []model.QuestionTiming{}
	if len(answers) == 0 {
		return timings
	}

	sums, err := s.EventRepo.SumTimeByQuestion(attemptID)
	if err != nil {
		logger.Log.Warn("failed to aggregate question times from events",
			zap.Uint("attemptId", attemptID), zap.Error(err))
		return timings
	}

	for questionID := range answers {
		if ms, ok := sums[questionID]; ok && ms > 0 {
			timings = append(timings, model.QuestionTiming{
				QuestionID:  questionID,
				TimeSpentMs: ms,
				AnsweredAt:  answeredAt,
			})
		}
	}
	return timings
}

func (s *AttemptService) GetAttempt(userID, attemptID uint) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

func (s *AttemptService) ListAttempts(userID uint, limit, offset int) ([]model.QuizAttempt, int64, error) {
	return s.AttemptRepo.FindByUserID(userID, limit, offset)
}

// DeleteAttempt 硬删除，会话与事件由外键级联
func (s *AttemptService) DeleteAttempt(userID, attemptID uint) error {
	if _, err := s.GetAttempt(userID, attemptID); err != nil {
		return err
	}
	return s.AttemptRepo.Delete(attemptID)
}

func (s *AttemptService) GetSessions(userID, attemptID uint) ([]model.AttemptSession, *repository.SessionStats, error) {
	if _, err := s.GetAttempt(userID, attemptID); err != nil {
		return nil, nil, err
	}

	sessions, err := s.SessionRepo.FindByAttemptID(attemptID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.SessionRepo.GetStats(attemptID)
	if err != nil {
		return nil, nil, err
	}
	return sessions, stats, nil
}

func (s *AttemptService) GetEvents(userID, attemptID uint, limit, offset int) ([]model.AttemptEvent, *repository.EventStats, []repository.TimelineEntry, error) {
	if _, err := s.GetAttempt(userID, attemptID); err != nil {
		return nil, nil, nil, err
	}

	events, err := s.EventRepo.List(attemptID, limit, offset)
	if err != nil {
		return nil, nil, nil, err
	}
	stats, err := s.EventRepo.GetStats(attemptID)
	if err != nil {
		return nil, nil, nil, err
	}
	timeline, err := s.EventRepo.GetTimeline(attemptID)
	if err != nil {
		return nil, nil, nil, err
	}
	return events, stats, timeline, nil
}

// LogEvent 追加客户端事件。时间戳由客户端提供，允许时钟偏差
func (s *AttemptService) LogEvent(userID, attemptID uint, req LogEventRequest) (*model.AttemptEvent, error) {
	if _, err := s.GetAttempt(userID, attemptID); err != nil {
		return nil, err
	}

	var eventData datatypes.JSON
	if req.EventData != nil {
		b, _ := json.Marshal(req.EventData)
		eventData = datatypes.JSON(b)
	}

	event := &model.AttemptEvent{
		AttemptID:      attemptID,
		EventType:      req.EventType,
		EventTimestamp: req.EventTimestamp,
		EventData:      eventData,
		QuestionID:     req.QuestionID,
		QuestionNumber: req.QuestionNumber,
		TimeSpentMs:    req.TimeSpentMs,
	}
	if err := s.EventRepo.Append(event); err != nil {
		return nil, err
	}

	// 暂停事件同步累计到活跃会话
	if req.EventType == model.EventTypePause {
		if session, err := s.SessionRepo.FindActive(attemptID); err == nil && session != nil {
			var pauseMs int64
			if v, ok := req.EventData["pauseDurationMs"]; ok {
				if f, ok := v.(float64); ok {
					pauseMs = int64(f)
				}
			}
			if err := s.SessionRepo.RecordPause(session.ID, pauseMs); err != nil {
				logger.Log.Warn("failed to record pause on session",
					zap.Uint("sessionId", session.ID), zap.Error(err))
			}
		}
	}

	return event, nil
}

func (s *AttemptService) GetUserStats(userID uint) (*repository.UserAttemptStats, error) {
	return s.AttemptRepo.GetUserStats(userID)
}

func (s *AttemptService) GetQuizStats(quizID uint) (*repository.QuizAttemptStats, error) {
	return s.AttemptRepo.GetQuizStats(quizID)
}

// SweepStaleAttempts 后台定时任务：超出限时的作答标记timeout，
// 无限时且长时间无活动的标记abandoned，并关闭遗留的活跃会话
func (s *AttemptService) SweepStaleAttempts() error {
	stale, err := s.AttemptRepo.FindStale(staleGracePeriod, staleIdleCutoff, staleSweepBatch)
	if err != nil {
		return err
	}

	for _, attempt := range stale {
		status := model.AttemptAbandoned
		if attempt.TimeLimitSeconds > 0 {
			status = model.AttemptTimeout
		}

		now := time.Now()
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.AttemptRepo.WithTx(tx).UpdateStatus(attempt.ID, model.AttemptInProgress, status); err != nil {
				return err
			}
			return s.SessionRepo.WithTx(tx).CloseActive(attempt.ID, now, nil)
		})
		if err != nil {
			logger.Log.Error("failed to sweep stale attempt",
				zap.Uint("attemptId", attempt.ID), zap.Error(err))
			continue
		}

		logger.Log.Info("stale attempt closed",
			zap.Uint("attemptId", attempt.ID), zap.String("status", string(status)))
	}

	return nil
}
