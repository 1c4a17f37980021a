package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"store/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// List returns active products matching the filter.
func (r *MockProductRepository) List(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(filter.Search)
	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		productList = append(productList, p)
	}

	switch filter.Sort {
	case "price_low":
		sort.Slice(productList, func(i, j int) bool { return productList[i].Price < productList[j].Price })
	case "price_high":
		sort.Slice(productList, func(i, j int) bool { return productList[i].Price > productList[j].Price })
	case "name":
		sort.Slice(productList, func(i, j int) bool { return productList[i].Name < productList[j].Name })
	default:
		sort.Slice(productList, func(i, j int) bool {
			if productList[i].Featured != productList[j].Featured {
				return productList[i].Featured
			}
			return productList[i].CreatedAt.After(productList[j].CreatedAt)
		})
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	return &product, nil
}

// GetRelated returns active products sharing a category.
func (r *MockProductRepository) GetRelated(category string, excludeID uint, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var related []models.Product
	for _, p := range r.products {
		if len(related) >= limit {
			break
		}
		if p.Active && p.Category == category && p.ID != excludeID {
			related = append(related, p)
		}
	}
	return related, nil
}

// Categories returns the distinct categories of active products.
func (r *MockProductRepository) Categories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, p := range r.products {
		if p.Active && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Search matches active products by name, description, or category.
func (r *MockProductRepository) Search(query string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(query)
	var matches []models.Product
	for _, p := range r.products {
		if len(matches) >= limit {
			break
		}
		if !p.Active {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product's catalog fields, preserving the
// stored activation state and creation time.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product %d: %w", product.ID, models.ErrProductNotFound)
	}
	product.Active = existing.Active
	product.CreatedAt = existing.CreatedAt
	r.products[product.ID] = *product
	return nil
}

// Deactivate clears a product's active flag.
func (r *MockProductRepository) Deactivate(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	product.Active = false
	r.products[id] = product
	return nil
}

// decrementStock atomically takes qty units from a product's stock.
// It fails without side effects when stock is insufficient.
func (r *MockProductRepository) decrementStock(id uint, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	if product.Stock < qty {
		return fmt.Errorf("product %d: %w", id, models.ErrInsufficientStock)
	}
	product.Stock -= qty
	r.products[id] = product
	return nil
}

// restoreStock undoes a decrement when a mock placement aborts partway.
func (r *MockProductRepository) restoreStock(id uint, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product, ok := r.products[id]; ok {
		product.Stock += qty
		r.products[id] = product
	}
}
