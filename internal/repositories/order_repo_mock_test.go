package repositories_test

import (
	"errors"
	"sync"
	"testing"

	"store/internal/models"
	"store/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMockOrderRepository_ConcurrentPlacement(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository(productRepo)
	orderRepo := repositories.NewMockOrderRepository(productRepo, cartRepo)

	product := &models.Product{Name: "Limited Edition Drone", Price: 49999, Stock: 1, Category: "Electronics", Active: true}
	assert.NoError(t, productRepo.Create(product))

	// Two sessions race to buy the last unit. Exactly one placement
	// succeeds and the other fails on stock, never both. In production
	// the database's conditional decrement makes this decision (see
	// TestGORMOrderRepository_Place_LastUnitGuard); the in-memory
	// repositories keep the same contract, so the interleaved schedule
	// can run without an external database.
	orders := []*models.Order{
		{OrderNumber: "JE-RACE00001", Status: models.StatusProcessing,
			Items: []models.OrderItem{{ProductID: product.ID, ProductName: product.Name, Quantity: 1, Price: product.Price, Subtotal: product.Price}}},
		{OrderNumber: "JE-RACE00002", Status: models.StatusProcessing,
			Items: []models.OrderItem{{ProductID: product.ID, ProductName: product.Name, Quantity: 1, Price: product.Price, Subtotal: product.Price}}},
	}

	results := make([]error, len(orders))
	var wg sync.WaitGroup
	for i := range orders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = orderRepo.Place(orders[i], orders[i].OrderNumber)
		}(i)
	}
	wg.Wait()

	var succeeded, outOfStock int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrInsufficientStock):
			outOfStock++
		default:
			t.Fatalf("unexpected placement error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, outOfStock)

	remaining, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining.Stock)
}

func TestMockOrderRepository_PartialFailureRestoresStock(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo, nil)

	first := &models.Product{Name: "Bluetooth Speaker", Price: 8999, Stock: 10, Category: "Electronics", Active: true}
	second := &models.Product{Name: "Smart Watch Pro", Price: 39999, Stock: 1, Category: "Electronics", Active: true}
	assert.NoError(t, productRepo.Create(first))
	assert.NoError(t, productRepo.Create(second))

	order := &models.Order{
		OrderNumber: "JE-MULTI0001",
		Status:      models.StatusProcessing,
		Items: []models.OrderItem{
			{ProductID: first.ID, ProductName: first.Name, Quantity: 2, Price: first.Price, Subtotal: first.Price * 2},
			{ProductID: second.ID, ProductName: second.Name, Quantity: 3, Price: second.Price, Subtotal: second.Price * 3},
		},
	}
	err := orderRepo.Place(order, "sess-a")
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// The first item's decrement is rolled back when the second fails.
	got, _ := productRepo.GetByID(first.ID)
	assert.Equal(t, 10, got.Stock)
	got, _ = productRepo.GetByID(second.ID)
	assert.Equal(t, 1, got.Stock)

	_, err = orderRepo.GetByOrderNumber("JE-MULTI0001")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
