package repository

import (
	"context"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/google/uuid"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Note, error)
}
