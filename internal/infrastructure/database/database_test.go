package database

import (
	"context"
	"testing"

	"github.com/ferrigb/sistema-nota/internal/config"
	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	log := zaptest.NewLogger(t)
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}, log)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db, log))
	return db
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestSeedDefaultData_CreatesOperatorOnce(t *testing.T) {
	db := openMemory(t)
	auth := &config.AuthConfig{AdminUsername: "agronorte", AdminPassword: "agronorte123"}
	ctx := context.Background()

	require.NoError(t, SeedDefaultData(ctx, db, auth, zaptest.NewLogger(t)))
	require.NoError(t, SeedDefaultData(ctx, db, auth, zaptest.NewLogger(t)))

	var users []entity.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "agronorte", users[0].Username)
	assert.True(t, users[0].Active)
	assert.NotEqual(t, "agronorte123", users[0].Password)
	assert.True(t, utils.CheckPasswordHash("agronorte123", users[0].Password))
}

func TestAutoMigrate_SingleOpenSaleIndex(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, db.Create(entity.NewSale()).Error)
	err := db.Create(entity.NewSale()).Error

	assert.Error(t, err)

	closed := entity.NewSale()
	closed.Finalized = true
	require.NoError(t, db.Create(closed).Error)
}
