package services

import "store/internal/models"

// PricingConfig holds the configured tax rate and flat shipping fee.
type PricingConfig struct {
	TaxRate     float64
	ShippingFee int64
	Currency    string
}

// Totals is a pricing snapshot of a cart, all values in cents.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// CalculateTotals derives subtotal, tax, shipping, and total from a
// cart snapshot. Pure arithmetic, no I/O.
//
// Tax is truncated toward zero: monetary values are integer cents and
// the rounding direction is observable behavior. Lines without a
// populated product contribute nothing, matching the source data where
// such a line cannot be priced.
func CalculateTotals(lines []models.CartItem, cfg PricingConfig) Totals {
	var subtotal int64
	for i := range lines {
		subtotal += lines[i].Subtotal()
	}
	tax := int64(float64(subtotal) * cfg.TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: cfg.ShippingFee,
		Total:    subtotal + tax + cfg.ShippingFee,
	}
}
