package repository

import (
	"context"
	"errors"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	domainRepo "github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) domainRepo.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	var note entity.Note
	err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Note{}, "id = ?", id).Error
}

func (r *noteRepository) List(ctx context.Context) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&notes).Error
	return notes, err
}
