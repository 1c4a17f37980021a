package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	format := regexp.MustCompile(`^JE-[A-Z0-9]{9}$`)
	for i := 0; i < 100; i++ {
		number, err := GenerateOrderNumber("JE")
		assert.NoError(t, err)
		assert.Regexp(t, format, number)
	}
}

func TestGenerateOrderNumber_Unique(t *testing.T) {
	// Statistical collision check: 10,000 draws over 36^9 values must
	// all be distinct within the run.
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		number, err := GenerateOrderNumber("JE")
		assert.NoError(t, err)
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusProcessing, StatusShipped, StatusCancelled} {
		assert.True(t, ValidOrderStatus(status))
	}
	assert.False(t, ValidOrderStatus("delivered"))
	assert.False(t, ValidOrderStatus(""))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$74.91", FormatCents(7491))
	assert.Equal(t, "$0.00", FormatCents(0))
	assert.Equal(t, "$9.99", FormatCents(999))
	assert.Equal(t, "$299.99", FormatCents(29999))
}

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{Quantity: 3, Product: &Product{Price: 1250}}
	assert.Equal(t, int64(3750), item.Subtotal())

	bare := CartItem{Quantity: 3}
	assert.Equal(t, int64(0), bare.Subtotal())
}

func TestOrderFullAddress(t *testing.T) {
	order := Order{
		ShippingAddress: "12 Analytical Way",
		ShippingCity:    "London",
		ShippingState:   "LN",
		ShippingZip:     "10001",
	}
	assert.Equal(t, "12 Analytical Way\nLondon, LN 10001", order.FullAddress())
}
