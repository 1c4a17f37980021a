package models

import "time"

// CartItem is one (session, product, quantity) line in a shopping cart.
// Carts are scoped by an opaque session token; a session holds at most
// one line per product.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"-" gorm:"type:varchar(200);not null;uniqueIndex:idx_cart_session_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_session_product"`
	Quantity  int       `json:"quantity" gorm:"default:1"`
	CreatedAt time.Time `json:"created_at"`

	// Product is populated explicitly by the repository, never lazily.
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Subtotal returns quantity times the current product price in cents.
func (c *CartItem) Subtotal() int64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.Price * int64(c.Quantity)
}
