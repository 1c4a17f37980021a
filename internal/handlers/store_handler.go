package handlers

import (
	"log"
	"strconv"

	"store/internal/models"
	"store/internal/repositories"
	"store/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for the product catalog.
type StoreHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(service *services.CatalogService) *StoreHandler {
	return &StoreHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/search", h.HandleSearch)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Get("/categories", h.HandleCategories)
}

// RegisterAdminRoutes registers the catalog management routes; the
// caller wraps them in auth middleware.
func (h *StoreHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/products", h.HandleCreateProduct)
	router.Put("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeactivateProduct)
}

// HandleListProducts lists active products with optional category,
// search, and sort query parameters.
func (h *StoreHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort", "featured"),
	}
	products, err := h.service.ListProducts(filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves one product plus up to four related
// products in the same category.
func (h *StoreHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	product, err := h.service.GetProduct(uint(id))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}

	related, err := h.service.GetRelatedProducts(product)
	if err != nil {
		log.Printf("Error getting related products for %d: %v", product.ID, err)
		related = []models.Product{}
	}

	return c.JSON(fiber.Map{
		"product": product,
		"related": related,
	})
}

// HandleCategories returns the distinct categories of active products.
func (h *StoreHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleSearch matches products by name, description, or category.
func (h *StoreHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.Query("q"))
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return respondError(c, "Search failed", err)
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a catalog entry.
func (h *StoreHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a catalog entry.
func (h *StoreHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = uint(id)
	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeactivateProduct hides a product from the storefront.
func (h *StoreHandler) HandleDeactivateProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	if err := h.service.DeactivateProduct(uint(id)); err != nil {
		log.Printf("Error deactivating product %d: %v", id, err)
		return respondError(c, "Could not deactivate product", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deactivated",
	})
}
