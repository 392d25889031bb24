package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/ferrigb/sistema-nota/pkg/validator"
)

// StoreService manages the single store record printed on receipts
type StoreService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
	}
}

// ConfigureStoreInput represents the store fields, all required
type ConfigureStoreInput struct {
	Name    string `json:"nome" validate:"required,notblank,max=100"`
	Address string `json:"endereco" validate:"required,notblank,max=200"`
	Phone   string `json:"telefone" validate:"required,notblank,max=20"`
}

// GetStore returns the configured store
func (s *StoreService) GetStore(ctx context.Context) (*entity.Store, error) {
	store, err := s.storeRepo.Get(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if store == nil {
		return nil, apperror.NewAppError(http.StatusNotFound, "Store information not configured")
	}
	return store, nil
}

// ConfigureStore creates the store or overwrites the existing one.
// The row id is fixed, so concurrent first writes upsert the same row.
func (s *StoreService) ConfigureStore(ctx context.Context, input *ConfigureStoreInput) (*entity.Store, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.Get(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if store == nil {
		store = &entity.Store{ID: entity.StoreID}
	}

	store.Name = strings.TrimSpace(input.Name)
	store.Address = strings.TrimSpace(input.Address)
	store.Phone = strings.TrimSpace(input.Phone)

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return store, nil
}

// FindStore returns the store or nil when it is not configured yet
func (s *StoreService) FindStore(ctx context.Context) (*entity.Store, error) {
	store, err := s.storeRepo.Get(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return store, nil
}
