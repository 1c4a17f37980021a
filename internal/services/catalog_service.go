package services

import (
	"store/internal/models"
	"store/internal/repositories"
)

// CatalogService handles business logic for the product catalog.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListProducts retrieves active products matching the filter.
func (s *CatalogService) ListProducts(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.List(filter)
}

// GetProduct retrieves a single product by its ID.
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetRelatedProducts retrieves up to four active products in the same
// category as the given product, excluding the product itself.
func (s *CatalogService) GetRelatedProducts(product *models.Product) ([]models.Product, error) {
	return s.repo.GetRelated(product.Category, product.ID, 4)
}

// Categories returns the distinct categories of active products.
func (s *CatalogService) Categories() ([]string, error) {
	return s.repo.Categories()
}

// SearchProducts matches active products by name, description, or
// category, capped at ten results.
func (s *CatalogService) SearchProducts(query string) ([]models.Product, error) {
	if query == "" {
		return []models.Product{}, nil
	}
	return s.repo.Search(query, 10)
}

// CreateProduct creates a new catalog entry. New products default to
// active unless explicitly deactivated later.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	product.Active = true
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeactivateProduct removes a product from the storefront without
// deleting it; historical orders keep their captured snapshots.
func (s *CatalogService) DeactivateProduct(id uint) error {
	return s.repo.Deactivate(id)
}
