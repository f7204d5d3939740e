package service

import (
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/repository"
	"quizgen_backend/internal/util"
)

type NoteService struct {
	NoteRepo *repository.NoteRepository
}

func NewNoteService(noteRepo *repository.NoteRepository) *NoteService {
	return &NoteService{NoteRepo: noteRepo}
}

type NoteRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	DocumentID *uint  `json:"documentId"`
}

func (s *NoteService) CreateNote(userID uint, req NoteRequest) (*model.Note, error) {
	note := &model.Note{
		UserID:     userID,
		DocumentID: req.DocumentID,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.NoteRepo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) GetNote(userID, noteID uint) (*model.Note, error) {
	note, err := s.NoteRepo.FindByID(noteID)
	if err != nil {
		return nil, util.ErrNoteNotFound
	}
	if note.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return note, nil
}

func (s *NoteService) ListNotes(userID uint) ([]model.Note, error) {
	return s.NoteRepo.FindByUserID(userID)
}

func (s *NoteService) UpdateNote(userID, noteID uint, req NoteRequest) (*model.Note, error) {
	note, err := s.GetNote(userID, noteID)
	if err != nil {
		return nil, err
	}
	note.Title = req.Title
	note.Content = req.Content
	note.DocumentID = req.DocumentID
	if err := s.NoteRepo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) DeleteNote(userID, noteID uint) error {
	if _, err := s.GetNote(userID, noteID); err != nil {
		return err
	}
	return s.NoteRepo.Delete(noteID)
}
