package repositories

import (
	"fmt"
	"sync"
	"time"

	"store/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It mirrors the transactional semantics of the GORM implementation:
// Place either applies the order, the stock decrements, and the cart
// clear together, or leaves everything untouched.
type MockOrderRepository struct {
	orders     map[uint]models.Order
	byNumber   map[string]uint
	nextID     uint
	nextItemID uint
	products   *MockProductRepository
	carts      *MockCartRepository
	mu         sync.Mutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
// products and carts may be nil when only Get/UpdateStatus are exercised.
func NewMockOrderRepository(products *MockProductRepository, carts *MockCartRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:     make(map[uint]models.Order),
		byNumber:   make(map[string]uint),
		nextID:     1,
		nextItemID: 1,
		products:   products,
		carts:      carts,
	}
}

// Place applies the order placement as one atomic step.
func (r *MockOrderRepository) Place(order *models.Order, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byNumber[order.OrderNumber]; exists {
		return fmt.Errorf("order number %s: %w", order.OrderNumber, models.ErrDuplicateOrderNumber)
	}

	// Decrement stock first; undo on any failure so the whole placement
	// behaves transactionally.
	var applied []models.OrderItem
	if r.products != nil {
		for _, item := range order.Items {
			if err := r.products.decrementStock(item.ProductID, item.Quantity); err != nil {
				for _, done := range applied {
					r.products.restoreStock(done.ProductID, done.Quantity)
				}
				return err
			}
			applied = append(applied, item)
		}
	}

	order.ID = r.nextID
	r.nextID++
	for i := range order.Items {
		order.Items[i].ID = r.nextItemID
		order.Items[i].OrderID = order.ID
		r.nextItemID++
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	r.byNumber[order.OrderNumber] = order.ID

	if r.carts != nil {
		if err := r.carts.ClearSession(sessionID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns an order by its internal ID.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
	}
	return &order, nil
}

// GetByOrderNumber returns an order by its human-facing number.
func (r *MockOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byNumber[orderNumber]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderNumber, models.ErrOrderNotFound)
	}
	order := r.orders[id]
	return &order, nil
}

// UpdateStatus updates an order's status.
func (r *MockOrderRepository) UpdateStatus(id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
