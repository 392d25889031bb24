package service

import (
	"context"
	"errors"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/ferrigb/sistema-nota/pkg/logger"
	"github.com/ferrigb/sistema-nota/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService handles the sale lifecycle: the current open sale, its items and finalization
type SaleService struct {
	saleRepo repository.SaleRepository
	logger   *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, log *zap.Logger) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		logger:   logger.OrNop(log),
	}
}

// FinalizeSaleInput represents the optional data recorded when closing a sale
type FinalizeSaleInput struct {
	CustomerName  *string
	PaymentMethod *string
}

// GetOrCreateCurrentSale returns the open sale, creating one when none exists
func (s *SaleService) GetOrCreateCurrentSale(ctx context.Context) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetOpen(ctx)
	if err != nil {
		return nil, s.persistence("get open sale", err)
	}
	if sale != nil {
		return sale, nil
	}

	sale = entity.NewSale()
	err = s.saleRepo.Create(ctx, sale)
	if errors.Is(err, repository.ErrOpenSaleExists) {
		// Another request created it first
		s.logger.Debug("open sale created concurrently, reloading")
		existing, err := s.saleRepo.GetOpen(ctx)
		if err != nil {
			return nil, s.persistence("reload open sale", err)
		}
		if existing == nil {
			return nil, s.persistence("reload open sale", errors.New("open sale vanished after conflict"))
		}
		return existing, nil
	}
	if err != nil {
		return nil, s.persistence("create open sale", err)
	}

	s.logger.Info("open sale created", zap.String("sale_id", sale.ID.String()))
	return sale, nil
}

// ClearCurrentSale deletes the open sale with its items and starts a fresh one
func (s *SaleService) ClearCurrentSale(ctx context.Context) (*entity.Sale, error) {
	var fresh *entity.Sale
	err := s.saleRepo.Transaction(ctx, func(repo repository.SaleRepository) error {
		current, err := repo.GetOpen(ctx)
		if err != nil {
			return err
		}
		if current != nil {
			if err := repo.Delete(ctx, current.ID); err != nil {
				return err
			}
			s.logger.Info("open sale cleared",
				zap.String("sale_id", current.ID.String()),
				zap.Int("items", len(current.Items)))
		}

		fresh = entity.NewSale()
		return repo.Create(ctx, fresh)
	})
	if err != nil {
		return nil, s.persistence("clear current sale", err)
	}
	return fresh, nil
}

// CreateSale starts a new open sale. Only one open sale may exist at a time.
func (s *SaleService) CreateSale(ctx context.Context) (*entity.Sale, error) {
	sale := entity.NewSale()
	err := s.saleRepo.Transaction(ctx, func(repo repository.SaleRepository) error {
		open, err := repo.GetOpen(ctx)
		if err != nil {
			return err
		}
		if open != nil {
			return apperror.ErrOpenSaleExists
		}
		return repo.Create(ctx, sale)
	})
	if errors.Is(err, repository.ErrOpenSaleExists) {
		return nil, apperror.ErrOpenSaleExists
	}
	if err != nil {
		return nil, s.wrap("create sale", err)
	}

	s.logger.Info("sale created", zap.String("sale_id", sale.ID.String()))
	return sale, nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, s.persistence("get sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// AddItem appends an item to an open sale and returns the updated sale
func (s *SaleService) AddItem(ctx context.Context, saleID uuid.UUID, spec entity.ItemSpec) (*entity.Sale, error) {
	return s.mutate(ctx, "add item", saleID, func(repo repository.SaleRepository, sale *entity.Sale) error {
		item, err := sale.AddItem(spec)
		if err != nil {
			return err
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return err
		}
		s.logger.Info("item added",
			zap.String("sale_id", sale.ID.String()),
			zap.String("item_id", item.ID.String()),
			zap.String("subtotal", item.Subtotal.StringFixed(2)))
		return nil
	})
}

// UpdateItem changes quantity, unit or price of an item and returns the updated sale
func (s *SaleService) UpdateItem(ctx context.Context, saleID, itemID uuid.UUID, upd entity.ItemUpdate) (*entity.Sale, error) {
	return s.mutate(ctx, "update item", saleID, func(repo repository.SaleRepository, sale *entity.Sale) error {
		item, err := sale.UpdateItem(itemID, upd)
		if err != nil {
			return err
		}
		return repo.UpdateItem(ctx, item)
	})
}

// RemoveItem deletes an item from an open sale and returns the updated sale
func (s *SaleService) RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*entity.Sale, error) {
	return s.mutate(ctx, "remove item", saleID, func(repo repository.SaleRepository, sale *entity.Sale) error {
		item, err := sale.RemoveItem(itemID)
		if err != nil {
			return err
		}
		return repo.DeleteItem(ctx, item.ID)
	})
}

// FinalizeSale closes a sale. A finalized sale can no longer change.
func (s *SaleService) FinalizeSale(ctx context.Context, saleID uuid.UUID, input *FinalizeSaleInput) (*entity.Sale, error) {
	if input == nil {
		input = &FinalizeSaleInput{}
	}
	sale, err := s.mutate(ctx, "finalize sale", saleID, func(_ repository.SaleRepository, sale *entity.Sale) error {
		return sale.Finalize(input.CustomerName, input.PaymentMethod)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale finalized",
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("items", len(sale.Items)))
	return sale, nil
}

// DeleteSale removes an open sale with its items
func (s *SaleService) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	err := s.saleRepo.Transaction(ctx, func(repo repository.SaleRepository) error {
		sale, err := repo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if err := sale.EnsureDeletable(); err != nil {
			return err
		}
		return repo.Delete(ctx, sale.ID)
	})
	if err != nil {
		return s.wrap("delete sale", err)
	}

	s.logger.Info("sale deleted", zap.String("sale_id", saleID.String()))
	return nil
}

// ListFinalizedSales lists finalized sales, newest first. A nil pagination returns all of them.
func (s *SaleService) ListFinalizedSales(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.ListFinalized(ctx, &repository.SaleFilterParams{Pagination: params})
	if err != nil {
		return nil, s.persistence("list finalized sales", err)
	}

	page, perPage := 1, int(total)
	if params != nil {
		page, perPage = params.Page, params.PerPage
	}
	return pagination.NewPaginatedResult(sales, pagination.NewPagination(page, perPage, total)), nil
}

// ListAllSales returns a summary of every stored sale, open or not
func (s *SaleService) ListAllSales(ctx context.Context) ([]entity.SaleSummary, error) {
	summaries, err := s.saleRepo.ListSummaries(ctx)
	if err != nil {
		return nil, s.persistence("list all sales", err)
	}
	return summaries, nil
}

// mutate loads and locks a sale inside a transaction, runs fn, then stores the new totals.
// Any error rolls back every write made by fn.
func (s *SaleService) mutate(ctx context.Context, op string, saleID uuid.UUID, fn func(repo repository.SaleRepository, sale *entity.Sale) error) (*entity.Sale, error) {
	var result *entity.Sale
	err := s.saleRepo.Transaction(ctx, func(repo repository.SaleRepository) error {
		sale, err := repo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if err := fn(repo, sale); err != nil {
			return err
		}
		if err := repo.Update(ctx, sale); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, s.wrap(op, err)
	}
	return result, nil
}

// wrap passes application errors through and turns anything else into a persistence error
func (s *SaleService) wrap(op string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return s.persistence(op, err)
}

func (s *SaleService) persistence(op string, err error) error {
	s.logger.Error("sale storage failure", zap.String("op", op), zap.Error(err))
	return apperror.NewPersistenceError(err)
}
