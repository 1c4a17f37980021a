package repositories

import (
	"errors"
	"fmt"

	"store/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// ListBySession retrieves a session's cart lines with products populated.
func (r *GORMCartRepository) ListBySession(sessionID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.
		Preload("Product").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// CountBySession returns the number of cart lines for a session.
func (r *GORMCartRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CartItem{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}

// GetLine retrieves a cart line by ID, restricted to the session.
func (r *GORMCartRepository) GetLine(id uint, sessionID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Preload("Product").
		First(&item, "id = ? AND session_id = ?", id, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line %d: %w", id, models.ErrCartItemNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line %d: %w", id, err)
	}
	return &item, nil
}

// FindLine locates the session's line for a product, if any.
func (r *GORMCartRepository) FindLine(sessionID string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "session_id = ? AND product_id = ?", sessionID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, models.ErrCartItemNotFound)
		}
		return nil, fmt.Errorf("failed to find cart line: %w", err)
	}
	return &item, nil
}

// Create inserts a new cart line.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity sets a line's quantity.
func (r *GORMCartRepository) UpdateQuantity(id uint, quantity int) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %d: %w", id, models.ErrCartItemNotFound)
	}
	return nil
}

// DeleteLine removes a cart line, restricted to the session.
func (r *GORMCartRepository) DeleteLine(id uint, sessionID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND session_id = ?", id, sessionID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %d: %w", id, models.ErrCartItemNotFound)
	}
	return nil
}

// ClearSession deletes all cart lines for a session.
func (r *GORMCartRepository) ClearSession(sessionID string) error {
	if err := r.db.Delete(&models.CartItem{}, "session_id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
