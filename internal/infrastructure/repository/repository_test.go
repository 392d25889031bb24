package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ferrigb/sistema-nota/internal/config"
	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	domainRepo "github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/internal/infrastructure/database"
	"github.com/ferrigb/sistema-nota/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := zaptest.NewLogger(t)
	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// finalizedSale stores a finalized sale with n items of 1.00 created at the given time
func finalizedSale(t *testing.T, repo domainRepo.SaleRepository, createdAt time.Time, n int) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	sale := entity.NewSale()
	sale.CreatedAt = createdAt
	require.NoError(t, repo.Create(ctx, sale))

	name := "Item"
	price := decimal.NewFromInt(1)
	for i := 0; i < n; i++ {
		item, err := sale.AddItem(entity.ItemSpec{ProductName: &name, UnitPrice: &price})
		require.NoError(t, err)
		require.NoError(t, repo.CreateItem(ctx, item))
	}
	require.NoError(t, sale.Finalize(nil, nil))
	require.NoError(t, repo.Update(ctx, sale))
	return sale
}

func TestSaleRepository_SingleOpenSale(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entity.NewSale()))
	err := repo.Create(ctx, entity.NewSale())

	assert.ErrorIs(t, err, domainRepo.ErrOpenSaleExists)
}

func TestSaleRepository_DuplicateIDIsNotAnOpenSaleConflict(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	existing := finalizedSale(t, repo, time.Now(), 1)

	dup := entity.NewSale()
	dup.ID = existing.ID
	dup.Finalized = true
	err := repo.Create(context.Background(), dup)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domainRepo.ErrOpenSaleExists)
}

func TestSaleRepository_ListFinalized(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	oldest := finalizedSale(t, repo, base, 1)
	middle := finalizedSale(t, repo, base.Add(time.Hour), 2)
	newest := finalizedSale(t, repo, base.Add(2*time.Hour), 3)
	require.NoError(t, repo.Create(ctx, entity.NewSale()))

	all, total, err := repo.ListFinalized(ctx, &domainRepo.SaleFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	assert.Len(t, all[0].Items, 3)

	page, total, err := repo.ListFinalized(ctx, &domainRepo.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, oldest.ID, page[0].ID)
}

func TestSaleRepository_ListSummaries(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	ctx := context.Background()

	sale := finalizedSale(t, repo, time.Now(), 2)
	open := entity.NewSale()
	require.NoError(t, repo.Create(ctx, open))

	summaries, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[uuid.UUID]int{}
	for _, s := range summaries {
		counts[s.ID] = s.ItemsCount
	}
	assert.EqualValues(t, 2, counts[sale.ID])
	assert.EqualValues(t, 0, counts[open.ID])
}

func TestSaleRepository_DeleteRemovesItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	sale := finalizedSale(t, repo, time.Now(), 3)
	require.NoError(t, repo.Delete(ctx, sale.ID))

	var items int64
	require.NoError(t, db.Model(&entity.Item{}).Count(&items).Error)
	assert.Zero(t, items)
	got, err := repo.GetWithItems(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyRepository(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	got, err := repo.GetByKey(ctx, "k1", userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key: "k1", UserID: userID, Endpoint: "POST /a", ResponseCode: 201, ResponseBody: "{}",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key: "k1", UserID: userID, Endpoint: "POST /b", ResponseCode: 201, ResponseBody: `{"ok":true}`,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	got, err = repo.GetByKey(ctx, "k1", userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "POST /b", got.Endpoint)
	assert.False(t, got.IsExpired())

	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key: "k2", UserID: userID, Endpoint: "POST /c", ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Minute),
	}))
	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
