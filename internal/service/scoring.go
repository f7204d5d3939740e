package service

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"quizgen_backend/internal/model"
)

// normalizeTrueFalse 将判断题答案归一化为大写字符串表示，
// 布尔 true → "TRUE"，其余字符串直接转大写
func normalizeTrueFalse(v interface{}) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return strings.ToUpper(t)
	default:
		return strings.ToUpper(fmt.Sprint(t))
	}
}

// answerPresent 判断提交的答案是否有效（nil 与空串视为未作答）
func answerPresent(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// isAnswerCorrect 单题判分。判断题大小写与类型不敏感，
// 其余题型在答案存在的前提下做严格相等比较
func isAnswerCorrect(question model.QuizQuestion, submitted interface{}) bool {
	if !answerPresent(submitted) {
		return false
	}

	if question.QuestionType == model.QuestionTypeTrueFalse {
		return normalizeTrueFalse(submitted) == normalizeTrueFalse(question.CorrectAnswer)
	}

	return reflect.DeepEqual(submitted, question.CorrectAnswer)
}

// scoreAnswers 对照题目集计算答对数。未提交的题目计为答错而非报错
func scoreAnswers(questions []model.QuizQuestion, answers map[string]interface{}) int {
	correct := 0
	for _, q := range questions {
		submitted, ok := answers[q.ID]
		if !ok {
			continue
		}
		if isAnswerCorrect(q, submitted) {
			correct++
		}
	}
	return correct
}

// computeScore 百分制四舍五入，correct ≤ total 恒成立
func computeScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
