package services

import (
	"errors"
	"fmt"

	"store/internal/models"
	"store/internal/repositories"
)

// CartService handles business logic for session-scoped shopping carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	pricing     PricingConfig
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, pricing PricingConfig) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		pricing:     pricing,
	}
}

// Items returns the session's cart lines with products populated,
// plus the pricing snapshot for the current cart contents.
func (s *CartService) Items(sessionID string) ([]models.CartItem, Totals, error) {
	items, err := s.cartRepo.ListBySession(sessionID)
	if err != nil {
		return nil, Totals{}, err
	}
	return items, CalculateTotals(items, s.pricing), nil
}

// Count returns the number of cart lines for the session.
func (s *CartService) Count(sessionID string) (int64, error) {
	return s.cartRepo.CountBySession(sessionID)
}

// Add puts quantity units of a product into the session's cart. If the
// session already holds a line for the product, the quantities are
// summed onto that line rather than creating a duplicate.
func (s *CartService) Add(sessionID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("product %d (requested %d, available %d): %w",
			productID, quantity, product.Stock, models.ErrInsufficientStock)
	}

	line, err := s.cartRepo.FindLine(sessionID, productID)
	switch {
	case err == nil:
		line.Quantity += quantity
		if err := s.cartRepo.UpdateQuantity(line.ID, line.Quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, models.ErrCartItemNotFound):
		line = &models.CartItem{
			SessionID: sessionID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.Create(line); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	line.Product = product
	return line, nil
}

// Update sets a cart line's quantity, re-validating against current
// stock. A quantity of zero or less removes the line; the returned
// line is nil in that case.
func (s *CartService) Update(sessionID string, lineID uint, quantity int) (*models.CartItem, error) {
	line, err := s.cartRepo.GetLine(lineID, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteLine(lineID, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("product %d (requested %d, available %d): %w",
			line.ProductID, quantity, product.Stock, models.ErrInsufficientStock)
	}

	if err := s.cartRepo.UpdateQuantity(lineID, quantity); err != nil {
		return nil, err
	}
	line.Quantity = quantity
	line.Product = product
	return line, nil
}

// Remove deletes a cart line belonging to the session.
func (s *CartService) Remove(sessionID string, lineID uint) error {
	return s.cartRepo.DeleteLine(lineID, sessionID)
}

// Clear deletes all of the session's cart lines.
func (s *CartService) Clear(sessionID string) error {
	return s.cartRepo.ClearSession(sessionID)
}
