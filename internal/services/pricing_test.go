package services_test

import (
	"testing"

	"store/internal/models"
	"store/internal/services"

	"github.com/stretchr/testify/assert"
)

func cartLine(price int64, qty int) models.CartItem {
	return models.CartItem{
		Quantity: qty,
		Product:  &models.Product{Price: price},
	}
}

func TestCalculateTotals_WorkedExample(t *testing.T) {
	// cart = [(price=2999, qty=2)], rate=0.0825, shipping=999
	// subtotal=5998, tax=floor(494.835)=494, total=7491
	lines := []models.CartItem{cartLine(2999, 2)}
	cfg := services.PricingConfig{TaxRate: 0.0825, ShippingFee: 999}

	totals := services.CalculateTotals(lines, cfg)

	assert.Equal(t, int64(5998), totals.Subtotal)
	assert.Equal(t, int64(494), totals.Tax)
	assert.Equal(t, int64(999), totals.Shipping)
	assert.Equal(t, int64(7491), totals.Total)
}

func TestCalculateTotals_TaxTruncatesTowardZero(t *testing.T) {
	cfg := services.PricingConfig{TaxRate: 0.0825, ShippingFee: 0}

	// 100 * 0.0825 = 8.25 -> 8, never rounded up.
	totals := services.CalculateTotals([]models.CartItem{cartLine(100, 1)}, cfg)
	assert.Equal(t, int64(8), totals.Tax)

	// 199 * 0.0825 = 16.4175 -> 16
	totals = services.CalculateTotals([]models.CartItem{cartLine(199, 1)}, cfg)
	assert.Equal(t, int64(16), totals.Tax)
}

func TestCalculateTotals_TotalIdentity(t *testing.T) {
	cfg := services.PricingConfig{TaxRate: 0.0825, ShippingFee: 999}
	cases := [][]models.CartItem{
		{},
		{cartLine(0, 5)},
		{cartLine(2999, 2)},
		{cartLine(29999, 1), cartLine(14999, 3), cartLine(999, 7)},
		{cartLine(1, 1)},
	}

	for _, lines := range cases {
		totals := services.CalculateTotals(lines, cfg)
		assert.Equal(t, totals.Subtotal+totals.Tax+totals.Shipping, totals.Total)
		assert.Equal(t, int64(float64(totals.Subtotal)*cfg.TaxRate), totals.Tax)
		assert.GreaterOrEqual(t, totals.Tax, int64(0))
	}
}

func TestCalculateTotals_MultipleLines(t *testing.T) {
	cfg := services.PricingConfig{TaxRate: 0.10, ShippingFee: 500}
	lines := []models.CartItem{
		cartLine(1000, 2), // 2000
		cartLine(250, 4),  // 1000
	}

	totals := services.CalculateTotals(lines, cfg)

	assert.Equal(t, int64(3000), totals.Subtotal)
	assert.Equal(t, int64(300), totals.Tax)
	assert.Equal(t, int64(3800), totals.Total)
}

func TestCalculateTotals_EmptyCart(t *testing.T) {
	cfg := services.PricingConfig{TaxRate: 0.0825, ShippingFee: 999}

	totals := services.CalculateTotals(nil, cfg)

	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Tax)
	assert.Equal(t, int64(999+0), totals.Total)
}
