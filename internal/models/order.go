package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Order statuses. Placement writes StatusProcessing directly; the later
// transitions are driven manually, outside the checkout pipeline.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCancelled:
		return true
	}
	return false
}

// Order is an immutable record of a completed purchase. All monetary
// fields are in cents and satisfy Total = Subtotal + Tax + Shipping.
// Only Status changes after creation.
type Order struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	OrderNumber     string    `json:"order_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	CustomerName    string    `json:"customer_name" gorm:"type:varchar(200);not null"`
	CustomerEmail   string    `json:"customer_email" gorm:"type:varchar(200);not null"`
	CustomerPhone   string    `json:"customer_phone" gorm:"type:varchar(20)"`
	ShippingAddress string    `json:"shipping_address" gorm:"type:varchar(500)"`
	ShippingCity    string    `json:"shipping_city" gorm:"type:varchar(100)"`
	ShippingState   string    `json:"shipping_state" gorm:"type:varchar(50)"`
	ShippingZip     string    `json:"shipping_zip" gorm:"type:varchar(20)"`
	Subtotal        int64     `json:"subtotal" gorm:"not null"`
	Tax             int64     `json:"tax" gorm:"not null"`
	Shipping        int64     `json:"shipping" gorm:"not null"`
	Total           int64     `json:"total" gorm:"not null"`
	Status          string    `json:"status" gorm:"type:varchar(50);default:pending"`
	PaymentID       string    `json:"-" gorm:"type:varchar(200)"`
	PaymentStatus   string    `json:"-" gorm:"type:varchar(50)"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
}

// OrderItem captures one purchased product. ProductName and Price
// freeze the product state at purchase time; later catalog changes
// never alter historical orders.
type OrderItem struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderID     uint   `json:"-" gorm:"not null"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name" gorm:"type:varchar(200);not null"`
	Quantity    int    `json:"quantity" gorm:"not null"`
	Price       int64  `json:"price" gorm:"not null"`
	Subtotal    int64  `json:"subtotal" gorm:"not null"`
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber builds a human-facing order number of the form
// "<prefix>-" plus 9 uppercase alphanumerics from crypto/rand, e.g.
// "JE-ABC123XYZ". Collisions are not checked here; the unique index on
// orders.order_number surfaces them as a constraint violation.
func GenerateOrderNumber(prefix string) (string, error) {
	buf := make([]byte, 9)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate order number: %w", err)
		}
		buf[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", prefix, buf), nil
}

// FullAddress returns the shipping address formatted for display.
func (o *Order) FullAddress() string {
	line2 := fmt.Sprintf("%s, %s %s", o.ShippingCity, o.ShippingState, o.ShippingZip)
	if o.ShippingAddress == "" {
		return line2
	}
	return o.ShippingAddress + "\n" + line2
}

// FormatCents renders a cents amount as a dollar string, e.g. "$74.91".
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
