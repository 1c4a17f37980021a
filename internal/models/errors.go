package models

import "errors"

// Sentinel errors shared by repositories, services, and handlers.
// Callers match them with errors.Is; repositories wrap them with
// fmt.Errorf("...: %w", ...) to add context.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrInvalidOrderStatus  = errors.New("invalid order status")

	// ErrDuplicateOrderNumber signals an order number collision. It is
	// surfaced, never retried: a collision violates the uniqueness
	// invariant and must be visible.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// ErrExternalService wraps payment or email provider failures.
	ErrExternalService = errors.New("external service failure")
)
