package service

import (
	"context"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/ferrigb/sistema-nota/pkg/validator"
	"github.com/google/uuid"
)

// NoteService handles note CRUD
type NoteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo repository.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

// CreateNoteInput represents the create note input
type CreateNoteInput struct {
	Title   string `json:"titulo" validate:"required,notblank,max=200"`
	Content string `json:"conteudo" validate:"required,notblank"`
}

// UpdateNoteInput represents a partial note update
type UpdateNoteInput struct {
	Title   *string `json:"titulo" validate:"omitempty,notblank,max=200"`
	Content *string `json:"conteudo" validate:"omitempty,notblank"`
}

// ListNotes returns every note, most recently modified first
func (s *NoteService) ListNotes(ctx context.Context) ([]entity.Note, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if notes == nil {
		notes = []entity.Note{}
	}
	return notes, nil
}

// CreateNote creates a new note
func (s *NoteService) CreateNote(ctx context.Context, input *CreateNoteInput) (*entity.Note, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	note := &entity.Note{
		Title:   strings.TrimSpace(input.Title),
		Content: input.Content,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return note, nil
}

// GetNote retrieves a note by ID
func (s *NoteService) GetNote(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if note == nil {
		return nil, apperror.NewNotFoundError("Note")
	}
	return note, nil
}

// UpdateNote applies the provided fields to a note
func (s *NoteService) UpdateNote(ctx context.Context, id uuid.UUID, input *UpdateNoteInput) (*entity.Note, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		note.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		note.Content = *input.Content
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return note, nil
}

// DeleteNote removes a note
func (s *NoteService) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetNote(ctx, id); err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError(err)
	}
	return nil
}
