package repositories

import (
	"store/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// Place persists a fully built order in a single transaction: it
// inserts the order and its items, decrements each product's stock by
// the purchased quantity, and deletes all of the session's cart lines.
// If any step fails (insufficient stock, order number collision, or
// any write error) every effect is rolled back; partial orders never
// persist.
type OrderRepository interface {
	Place(order *models.Order, sessionID string) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	UpdateStatus(id uint, status string) error
}
