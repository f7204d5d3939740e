package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"quizgen_backend/internal/model"
	"quizgen_backend/internal/repository"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const analysisCacheTTL = 24 * time.Hour

// AnalysisService 对已完成的作答生成概念掌握度报告，
// 模型调用失败时退回确定性的模板摘要
type AnalysisService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
	AI          *AIService
	Redis       *redis.Client
}

func NewAnalysisService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository, ai *AIService, rdb *redis.Client) *AnalysisService {
	return &AnalysisService{
		AttemptRepo: attemptRepo,
		QuizRepo:    quizRepo,
		AI:          ai,
		Redis:       rdb,
	}
}

// AnalysisReport 分析结果，source 标记来源为模型还是模板
type AnalysisReport struct {
	Report      string    `json:"report"`
	Source      string    `json:"source"` // "ai" 或 "fallback"
	GeneratedAt time.Time `json:"generatedAt"`
}

func analysisCacheKey(quizID, attemptID uint) string {
	return fmt.Sprintf("analysis:%d:%d", quizID, attemptID)
}

func (s *AnalysisService) AnalyzeAttempt(ctx context.Context, userID, attemptID uint) (*AnalysisReport, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptCompleted {
		return nil, util.ErrAttemptNotCompleted
	}

	// 缓存命中直接返回，键为 quiz+attempt
	cacheKey := analysisCacheKey(attempt.QuizID, attempt.ID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var report AnalysisReport
			if json.Unmarshal([]byte(cached), &report) == nil {
				return &report, nil
			}
		}
	}

	var questions []model.QuizQuestion
	if len(attempt.QuizData) > 0 {
		json.Unmarshal(attempt.QuizData, &questions)
	}
	var answers map[string]interface{}
	if len(attempt.Answers) > 0 {
		json.Unmarshal(attempt.Answers, &answers)
	}

	report := s.generateReport(attempt, questions, answers)

	if s.Redis != nil {
		if b, err := json.Marshal(report); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, b, analysisCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache analysis report",
					zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return report, nil
}

func (s *AnalysisService) generateReport(attempt *model.QuizAttempt, questions []model.QuizQuestion, answers map[string]interface{}) *AnalysisReport {
	prompt := buildAnalysisPrompt(attempt, questions, answers)

	content, err := s.AI.Chat(
		"You are a learning analyst. Given a quiz attempt, write a concise concept-mastery report: "+
			"strengths, weaknesses, and concrete study suggestions. Plain text, no markdown headings.",
		prompt,
	)
	if err != nil || strings.TrimSpace(content) == "" {
		// 模型不可用时退回模板，分析接口对用户永不报错
		logger.Log.Warn("analysis model call failed, using fallback summary",
			zap.Uint("attemptId", attempt.ID), zap.Error(err))
		return &AnalysisReport{
			Report:      fallbackSummary(attempt, questions, answers),
			Source:      "fallback",
			GeneratedAt: time.Now(),
		}
	}

	return &AnalysisReport{
		Report:      content,
		Source:      "ai",
		GeneratedAt: time.Now(),
	}
}

func buildAnalysisPrompt(attempt *model.QuizAttempt, questions []model.QuizQuestion, answers map[string]interface{}) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quiz attempt result: score %d%%, %d/%d correct, time taken %d seconds.\n\n",
		attempt.Score, attempt.CorrectAnswers, attempt.TotalQuestions, attempt.TimeTakenSeconds)

	for i, q := range questions {
		submitted := answers[q.ID]
		fmt.Fprintf(&sb, "Q%d (%s): %s\n", i+1, q.QuestionType, q.Question)
		fmt.Fprintf(&sb, "  correct answer: %v\n  submitted answer: %v\n", q.CorrectAnswer, submitted)
	}
	return sb.String()
}

// fallbackSummary 确定性模板摘要：同样的输入产出同样的文本
func fallbackSummary(attempt *model.QuizAttempt, questions []model.QuizQuestion, answers map[string]interface{}) string {
	band := "needs significant review"
	switch {
	case attempt.Score >= 90:
		band = "excellent"
	case attempt.Score >= 75:
		band = "good"
	case attempt.Score >= 50:
		band = "fair"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You scored %d%% (%d of %d correct, %d incorrect). Performance: %s.\n",
		attempt.Score, attempt.CorrectAnswers, attempt.TotalQuestions, attempt.IncorrectAnswers, band)
	if attempt.TimeTakenSeconds > 0 {
		fmt.Fprintf(&sb, "Total time: %d seconds.\n", attempt.TimeTakenSeconds)
	}

	// 按题型统计正确率
	type typeStat struct{ correct, total int }
	byType := map[string]*typeStat{}
	for _, q := range questions {
		st, ok := byType[q.QuestionType]
		if !ok {
			st = &typeStat{}
			byType[q.QuestionType] = st
		}
		st.total++
		if isAnswerCorrect(q, answers[q.ID]) {
			st.correct++
		}
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		st := byType[t]
		fmt.Fprintf(&sb, "%s: %d/%d correct.\n", t, st.correct, st.total)
	}

	if attempt.Score < 75 {
		sb.WriteString("Review the questions you missed and revisit the source material before retrying.")
	} else {
		sb.WriteString("Keep up the consistent practice to retain this material.")
	}
	return sb.String()
}
