package repositories

import (
	"errors"
	"fmt"

	"store/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Place runs the order placement transaction. The stock decrement is a
// conditional UPDATE guarded by "stock >= quantity", so two concurrent
// checkouts of the last unit resolve inside the database: one commits,
// the other aborts with ErrInsufficientStock. Requires the database to
// have TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
func (r *GORMOrderRepository) Place(order *models.Order, sessionID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Creates the order items alongside the order.
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("order number %s: %w", order.OrderNumber, models.ErrDuplicateOrderNumber)
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %d: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", item.ProductID, models.ErrInsufficientStock)
			}
		}

		if err := tx.Delete(&models.CartItem{}, "session_id = ?", sessionID).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// GetByID retrieves an order with its items by internal ID.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// GetByOrderNumber retrieves an order with its items by the
// human-facing order number.
func (r *GORMOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderNumber, err)
	}
	return &order, nil
}

// UpdateStatus updates an order's status field. Orders are otherwise
// immutable after placement.
func (r *GORMOrderRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
	}
	return nil
}
