package repository

import (
	"quizgen_backend/internal/model"

	"gorm.io/gorm"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(note *model.Note) error {
	return r.DB.Create(note).Error
}

func (r *NoteRepository) FindByID(id uint) (*model.Note, error) {
	var note model.Note
	if err := r.DB.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) FindByUserID(userID uint) ([]model.Note, error) {
	var notes []model.Note
	err := r.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) Update(note *model.Note) error {
	return r.DB.Save(note).Error
}

func (r *NoteRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Note{}, id).Error
}
