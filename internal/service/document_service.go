package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"quizgen_backend/internal/model"
	"quizgen_backend/internal/repository"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DocumentService 负责PDF上传、文本提取与文档管理
type DocumentService struct {
	DocumentRepo *repository.DocumentRepository
	Storage      *StorageService
}

func NewDocumentService(docRepo *repository.DocumentRepository, storage *StorageService) *DocumentService {
	return &DocumentService{
		DocumentRepo: docRepo,
		Storage:      storage,
	}
}

// Upload 保存PDF并同步提取文本；提取失败不影响文件保存，仅标记状态
func (s *DocumentService) Upload(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*model.Document, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	storedName := fmt.Sprintf("documents/%s%s", uuid.New().String(), ext)
	if _, err := s.Storage.Upload(ctx, storedName, bytes.NewReader(data), int64(len(data)), util.MimePDF); err != nil {
		return nil, err
	}

	doc := &model.Document{
		UserID:      userID,
		FileName:    fileHeader.Filename,
		StoragePath: storedName,
		FileSize:    int64(len(data)),
		Status:      model.DocumentProcessing,
	}
	if err := s.DocumentRepo.Create(doc); err != nil {
		// 回收已上传的对象
		s.Storage.Delete(ctx, storedName)
		return nil, err
	}

	text, pages, err := extractPDFText(data)
	if err != nil {
		logger.Log.Warn("PDF text extraction failed",
			zap.Uint("documentId", doc.ID), zap.Error(err))
		doc.Status = model.DocumentFailed
	} else {
		doc.ExtractedText = text
		doc.PageCount = pages
		doc.Status = model.DocumentCompleted
	}

	if err := s.DocumentRepo.Update(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) GetDocument(userID, docID uint) (*model.Document, error) {
	doc, err := s.DocumentRepo.FindByID(docID)
	if err != nil {
		return nil, util.ErrDocumentNotFound
	}
	if doc.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(userID uint, limit, offset int) ([]model.Document, int64, error) {
	return s.DocumentRepo.FindByUserID(userID, limit, offset)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, userID, docID uint) error {
	doc, err := s.GetDocument(userID, docID)
	if err != nil {
		return err
	}

	if err := s.Storage.Delete(ctx, doc.StoragePath); err != nil {
		logger.Log.Warn("failed to delete stored object",
			zap.String("path", doc.StoragePath), zap.Error(err))
	}
	return s.DocumentRepo.Delete(doc.ID)
}

// extractPDFText 逐页提取纯文本
func extractPDFText(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	pages := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", pages, fmt.Errorf("no extractable text in PDF")
	}
	return text, pages, nil
}
