package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	domainRepo "github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Transaction(ctx context.Context, fn func(repo domainRepo.SaleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&saleRepository{db: tx})
	})
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
	if isOpenSaleViolation(err) {
		return domainRepo.ErrOpenSaleExists
	}
	return err
}

func (r *saleRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *saleRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	query := r.db.WithContext(ctx)
	// SQLite serializes writers itself and has no row locks
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(query.Where("id = ?", id))
}

func (r *saleRepository) GetOpen(ctx context.Context) (*entity.Sale, error) {
	return r.first(r.db.WithContext(ctx).Where("finalized = ?", false))
}

func (r *saleRepository) first(query *gorm.DB) (*entity.Sale, error) {
	var sale entity.Sale
	err := query.Preload("Items", orderItems).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.Item{}, "sale_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Sale{}, "id = ?", id).Error
	})
}

func (r *saleRepository) ListFinalized(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Sale{}).Where("finalized = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Where("finalized = ?", true).
		Preload("Items", orderItems).
		Order("created_at DESC")
	if params != nil && params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Find(&sales).Error
	return sales, total, err
}

func (r *saleRepository) ListSummaries(ctx context.Context) ([]entity.SaleSummary, error) {
	var sales []entity.Sale
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sales).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		SaleID uuid.UUID
		Count  int
	}
	err := r.db.WithContext(ctx).Model(&entity.Item{}).
		Select("sale_id, COUNT(*) AS count").
		Group("sale_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	bySale := make(map[uuid.UUID]int, len(counts))
	for _, c := range counts {
		bySale[c.SaleID] = c.Count
	}

	summaries := make([]entity.SaleSummary, 0, len(sales))
	for _, s := range sales {
		summaries = append(summaries, entity.SaleSummary{
			ID:         s.ID,
			Finalized:  s.Finalized,
			Total:      s.Total,
			CreatedAt:  s.CreatedAt,
			ItemsCount: bySale[s.ID],
		})
	}
	return summaries, nil
}

func (r *saleRepository) CreateItem(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *saleRepository) UpdateItem(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *saleRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Item{}, "id = ?", id).Error
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// singleOpenSaleIndex is the partial unique index created on vendas(finalized) WHERE finalized = false
const singleOpenSaleIndex = "idx_vendas_single_open"

// isOpenSaleViolation reports whether err is a violation of the single open sale index.
// Other unique violations, such as a primary key collision, are left as they are.
func isOpenSaleViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == singleOpenSaleIndex
	}
	// SQLite names the indexed column instead of the index
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed: vendas.finalized") ||
		strings.Contains(msg, singleOpenSaleIndex)
}
