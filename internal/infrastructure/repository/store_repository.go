package repository

import (
	"context"
	"errors"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"gorm.io/gorm"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

// Get returns the configured store, or nil when none exists
func (r *storeRepository) Get(ctx context.Context) (*entity.Store, error) {
	var store entity.Store
	err := r.db.WithContext(ctx).Order("id ASC").First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// Save creates the store row or updates the existing one
func (r *storeRepository) Save(ctx context.Context, store *entity.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}
