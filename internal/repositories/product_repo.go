package repositories

import (
	"store/internal/models"
)

// ProductFilter narrows catalog listings. Zero values mean "no filter";
// Sort is one of "featured" (default), "price_low", "price_high", "name".
type ProductFilter struct {
	Category string
	Search   string
	Sort     string
}

// ProductRepository defines the interface for product data access.
// Listings only ever return active products; products are deactivated,
// never hard-deleted.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetRelated(category string, excludeID uint, limit int) ([]models.Product, error)
	Categories() ([]string, error)
	Search(query string, limit int) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Deactivate(id uint) error
}
