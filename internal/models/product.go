package models

import "time"

// Product represents an item in the store catalog.
// Prices are stored in minor currency units (cents).
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       int64     `json:"price" gorm:"not null" validate:"gte=0"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(500)" validate:"omitempty,url"`
	Category    string    `json:"category" gorm:"type:varchar(100)"`
	Stock       int       `json:"stock" gorm:"default:0" validate:"gte=0"`
	Featured    bool      `json:"featured" gorm:"default:false"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceFormatted returns the price as a display string, e.g. "$29.99".
func (p *Product) PriceFormatted() string {
	return FormatCents(p.Price)
}

// InStock reports whether any units are available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
