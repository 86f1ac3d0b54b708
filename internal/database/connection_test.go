package database

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luxeshop/luxe-backend/internal/config"
	"github.com/luxeshop/luxe-backend/internal/models"
)

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := Initialize(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestRunMigrationsCreatesTables(t *testing.T) {
	db := OpenTestDB(t)

	for _, table := range []string{"products", "orders", "order_items", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := OpenTestDB(t)

	err := WithTransaction(db, func(tx *gorm.DB) error {
		order := &models.Order{Total: decimal.NewFromInt(10), Status: models.OrderStatusPending}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTransactionCommits(t *testing.T) {
	db := OpenTestDB(t)

	err := WithTransaction(db, func(tx *gorm.DB) error {
		return tx.Create(&models.Order{Total: decimal.NewFromInt(10), Status: models.OrderStatusPending}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
