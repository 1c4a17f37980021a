package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"store/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// It can be paired with a MockProductRepository so listed lines carry
// product snapshots like the GORM implementation's preload.
type MockCartRepository struct {
	items    map[uint]models.CartItem
	nextID   uint
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
// products may be nil; ListBySession and GetLine then leave Product unset.
func NewMockCartRepository(products *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		items:    make(map[uint]models.CartItem),
		nextID:   1,
		products: products,
	}
}

func (r *MockCartRepository) populate(item *models.CartItem) {
	if r.products == nil {
		return
	}
	if product, err := r.products.GetByID(item.ProductID); err == nil {
		item.Product = product
	}
}

// ListBySession returns a session's cart lines in insertion order.
func (r *MockCartRepository) ListBySession(sessionID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []models.CartItem
	for _, item := range r.items {
		if item.SessionID == sessionID {
			r.populate(&item)
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// CountBySession returns the number of cart lines for a session.
func (r *MockCartRepository) CountBySession(sessionID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, item := range r.items {
		if item.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// GetLine returns a cart line by ID, restricted to the session.
func (r *MockCartRepository) GetLine(id uint, sessionID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.SessionID != sessionID {
		return nil, fmt.Errorf("cart line %d: %w", id, models.ErrCartItemNotFound)
	}
	r.populate(&item)
	return &item, nil
}

// FindLine locates the session's line for a product, if any.
func (r *MockCartRepository) FindLine(sessionID string, productID uint) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SessionID == sessionID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("product %d: %w", productID, models.ErrCartItemNotFound)
}

// Create inserts a new cart line.
func (r *MockCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	stored := *item
	stored.Product = nil
	r.items[item.ID] = stored
	return nil
}

// UpdateQuantity sets a line's quantity.
func (r *MockCartRepository) UpdateQuantity(id uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("cart line %d: %w", id, models.ErrCartItemNotFound)
	}
	item.Quantity = quantity
	r.items[id] = item
	return nil
}

// DeleteLine removes a cart line, restricted to the session.
func (r *MockCartRepository) DeleteLine(id uint, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.SessionID != sessionID {
		return fmt.Errorf("cart line %d: %w", id, models.ErrCartItemNotFound)
	}
	delete(r.items, id)
	return nil
}

// ClearSession deletes all cart lines for a session.
func (r *MockCartRepository) ClearSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.SessionID == sessionID {
			delete(r.items, id)
		}
	}
	return nil
}
