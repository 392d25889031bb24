package repository

import (
	"context"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
)

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	Get(ctx context.Context) (*entity.Store, error)
	Save(ctx context.Context, store *entity.Store) error
}
