// internal/repository/order_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/luxeshop/luxe-backend/internal/database"
	"github.com/luxeshop/luxe-backend/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	// CreatePending stores the order and its items in one transaction.
	CreatePending(ctx context.Context, order *models.Order) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreatePending(ctx context.Context, order *models.Order) error {
	order.Status = models.OrderStatusPending

	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		// Items are created through the association in the same transaction.
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

func (r *orderRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}
