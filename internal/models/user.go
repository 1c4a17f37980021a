package models

import "time"

// User represents a store user. Checkout is guest-based; user accounts
// exist for catalog administration.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(200);uniqueIndex;not null" validate:"required,email"`
	Name      string    `json:"name" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}
