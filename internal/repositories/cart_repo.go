package repositories

import (
	"store/internal/models"
)

// CartRepository defines the interface for cart data access. Every
// operation is scoped to a session identifier; no call can see or
// mutate another session's lines. ListBySession returns lines with the
// Product field populated.
type CartRepository interface {
	ListBySession(sessionID string) ([]models.CartItem, error)
	CountBySession(sessionID string) (int64, error)
	GetLine(id uint, sessionID string) (*models.CartItem, error)
	FindLine(sessionID string, productID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	DeleteLine(id uint, sessionID string) error
	ClearSession(sessionID string) error
}
