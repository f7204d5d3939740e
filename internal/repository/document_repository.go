package repository

import (
	"quizgen_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.DB.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) FindByUserID(userID uint, limit, offset int) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	q := r.DB.Model(&model.Document{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := q.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&docs).Error
	return docs, total, err
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	return r.DB.Save(doc).Error
}

func (r *DocumentRepository) UpdateStatus(id uint, status model.DocumentStatus) error {
	return r.DB.Model(&model.Document{}).Where("id = ?", id).Update("status", status).Error
}

func (r *DocumentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Document{}, id).Error
}
