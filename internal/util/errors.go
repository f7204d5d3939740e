package util

import "errors"

var (
	ErrUserNotFound            = errors.New("用户不存在")
	ErrEmailRegistered         = errors.New("该邮箱已被注册")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentNotReady        = errors.New("document text not extracted yet")
	ErrQuizNotFound            = errors.New("quiz not found")
	ErrNoteNotFound            = errors.New("note not found")
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
	ErrAttemptNotCompleted     = errors.New("attempt not completed")
	ErrQuizGeneration          = errors.New("quiz generation failed")
)
