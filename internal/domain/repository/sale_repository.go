package repository

import (
	"context"
	"errors"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/pkg/pagination"
	"github.com/google/uuid"
)

// ErrOpenSaleExists is returned by Create when another open sale is already stored
var ErrOpenSaleExists = errors.New("an open sale already exists")

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	// Transaction runs fn against a repository bound to a single database transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(repo SaleRepository) error) error

	Create(ctx context.Context, sale *entity.Sale) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetForUpdate loads a sale with its items and locks the row until the transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetOpen(ctx context.Context) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListFinalized(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListSummaries(ctx context.Context) ([]entity.SaleSummary, error)

	CreateItem(ctx context.Context, item *entity.Item) error
	UpdateItem(ctx context.Context, item *entity.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	// Pagination is optional. Nil returns every matching sale.
	Pagination *pagination.PaginationParams
}
