package controller

import (
	"errors"

	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondServiceError 将服务层错误映射为统一的HTTP响应
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrDocumentNotFound),
		errors.Is(err, util.ErrNoteNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAttemptAlreadySubmitted):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptNotCompleted),
		errors.Is(err, util.ErrDocumentNotReady),
		errors.Is(err, util.ErrEmailRegistered):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrQuizGeneration):
		util.BadGateway(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
