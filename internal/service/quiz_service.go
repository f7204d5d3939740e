package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"quizgen_backend/internal/model"
	"quizgen_backend/internal/repository"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// 提取文本送入模型的上限，避免超出上下文窗口
const maxSourceTextLen = 24000

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	DocumentRepo *repository.DocumentRepository
	AI           *AIService
}

func NewQuizService(quizRepo *repository.QuizRepository, docRepo *repository.DocumentRepository, ai *AIService) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		DocumentRepo: docRepo,
		AI:           ai,
	}
}

type GenerateQuizRequest struct {
	DocumentID    uint   `json:"documentId" binding:"required"`
	QuestionCount int    `json:"questionCount"`
	Difficulty    string `json:"difficulty"`
	TimeLimit     int    `json:"timeLimit"` // 分钟
}

// generatedQuiz 模型返回的结构化测验
type generatedQuiz struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Questions   []model.QuizQuestion `json:"questions"`
}

// GenerateQuiz 从文档提取文本出题并持久化
func (s *QuizService) GenerateQuiz(userID uint, req GenerateQuizRequest) (*model.Quiz, error) {
	doc, err := s.DocumentRepo.FindByID(req.DocumentID)
	if err != nil {
		return nil, util.ErrDocumentNotFound
	}
	if doc.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if doc.Status != model.DocumentCompleted || doc.ExtractedText == "" {
		return nil, util.ErrDocumentNotReady
	}

	count := req.QuestionCount
	if count <= 0 {
		count = 10
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	text := doc.ExtractedText
	if len(text) > maxSourceTextLen {
		text = text[:maxSourceTextLen]
	}

	systemPrompt := "You are a quiz generator. Given source material, produce a quiz as pure JSON with this shape: " +
		`{"title":"...","description":"...","questions":[{"id":"q1","questionType":"multiple_choice|true_false|short_answer","question":"...","options":["..."],"correctAnswer":...,"explanation":"..."}]}. ` +
		"For true_false questions correctAnswer is a boolean. For multiple_choice it is the exact option text. " +
		"Return only JSON, no markdown fences, no commentary."
	userPrompt := fmt.Sprintf("Generate %d %s-difficulty quiz questions from the following material:\n\n%s", count, difficulty, text)

	raw, err := s.AI.Chat(systemPrompt, userPrompt)
	if err != nil {
		logger.Log.Error("quiz generation call failed", zap.Uint("documentId", doc.ID), zap.Error(err))
		return nil, util.ErrQuizGeneration
	}

	gen, err := parseGeneratedQuiz(raw)
	if err != nil {
		logger.Log.Error("quiz generation parse failed", zap.Uint("documentId", doc.ID), zap.Error(err))
		return nil, util.ErrQuizGeneration
	}

	// 题目ID缺失时补齐，计分按ID查找答案
	for i := range gen.Questions {
		if gen.Questions[i].ID == "" {
			gen.Questions[i].ID = fmt.Sprintf("q%d", i+1)
		}
	}

	quizData, err := json.Marshal(gen.Questions)
	if err != nil {
		return nil, err
	}

	title := gen.Title
	if title == "" {
		title = doc.FileName
	}

	quiz := &model.Quiz{
		UserID:         userID,
		DocumentID:     &doc.ID,
		Title:          title,
		Description:    gen.Description,
		Difficulty:     difficulty,
		TimeLimit:      req.TimeLimit,
		TotalQuestions: len(gen.Questions),
		QuizData:       datatypes.JSON(quizData),
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// parseGeneratedQuiz 容忍模型输出中的markdown围栏与前后杂音
func parseGeneratedQuiz(raw string) (*generatedQuiz, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	// 截取最外层花括号之间的内容
	if start := strings.Index(cleaned, "{"); start > 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var gen generatedQuiz
	if err := json.Unmarshal([]byte(cleaned), &gen); err != nil {
		return nil, err
	}
	if len(gen.Questions) == 0 {
		return nil, fmt.Errorf("generated quiz has no questions")
	}
	return &gen, nil
}

func (s *QuizService) GetQuiz(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(userID uint, limit, offset int) ([]model.Quiz, int64, error) {
	return s.QuizRepo.FindByUserID(userID, limit, offset)
}

func (s *QuizService) DeleteQuiz(userID, quizID uint) error {
	quiz, err := s.GetQuiz(userID, quizID)
	if err != nil {
		return err
	}
	return s.QuizRepo.Delete(quiz.ID)
}
