package handlers

import (
	"log"
	"strconv"

	"store/internal/middleware"
	"store/internal/models"
	"store/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session-scoped cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/count", h.HandleCount)
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Post("/update", h.HandleUpdate)
	cartRoutes.Delete("/remove/:id", h.HandleRemove)
	cartRoutes.Post("/clear", h.HandleClear)
}

// cartLineResponse is a fully populated view of one cart line.
type cartLineResponse struct {
	ID                uint            `json:"id"`
	ProductID         uint            `json:"product_id"`
	Product           *models.Product `json:"product"`
	Quantity          int             `json:"quantity"`
	Subtotal          int64           `json:"subtotal"`
	SubtotalFormatted string          `json:"subtotal_formatted"`
}

func toCartLineResponse(line *models.CartItem) cartLineResponse {
	return cartLineResponse{
		ID:                line.ID,
		ProductID:         line.ProductID,
		Product:           line.Product,
		Quantity:          line.Quantity,
		Subtotal:          line.Subtotal(),
		SubtotalFormatted: models.FormatCents(line.Subtotal()),
	}
}

// HandleGetCart returns the session's cart lines and pricing snapshot.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c)
	items, totals, err := h.service.Items(sessionID)
	if err != nil {
		log.Printf("Error listing cart for session %s: %v", sessionID, err)
		return respondError(c, "Could not retrieve cart", err)
	}

	lines := make([]cartLineResponse, 0, len(items))
	for i := range items {
		lines = append(lines, toCartLineResponse(&items[i]))
	}
	return c.JSON(fiber.Map{
		"items":           lines,
		"subtotal":        totals.Subtotal,
		"tax":             totals.Tax,
		"shipping":        totals.Shipping,
		"total":           totals.Total,
		"total_formatted": models.FormatCents(totals.Total),
	})
}

// HandleCount returns the number of cart lines for the session.
func (h *CartHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.service.Count(middleware.SessionID(c))
	if err != nil {
		return respondError(c, "Could not count cart items", err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// AddToCartRequest is the request body for adding a product.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAdd puts a product into the cart, merging onto an existing
// line for the same product.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sessionID := middleware.SessionID(c)
	line, err := h.service.Add(sessionID, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %d to cart: %v", req.ProductID, err)
		return respondError(c, "Could not add product to cart", err)
	}

	count, err := h.service.Count(sessionID)
	if err != nil {
		log.Printf("Error counting cart for session %s: %v", sessionID, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Product added to cart",
		"cart_count": count,
		"cart_item":  toCartLineResponse(line),
	})
}

// UpdateCartRequest is the request body for changing a line quantity.
// A quantity of zero or less removes the line.
type UpdateCartRequest struct {
	CartItemID uint `json:"cart_item_id" validate:"required"`
	Quantity   int  `json:"quantity"`
}

// HandleUpdate sets a cart line's quantity.
func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	line, err := h.service.Update(middleware.SessionID(c), req.CartItemID, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart line %d: %v", req.CartItemID, err)
		return respondError(c, "Could not update cart", err)
	}

	resp := fiber.Map{
		"success": true,
		"message": "Cart updated",
	}
	if line != nil {
		resp["cart_item"] = toCartLineResponse(line)
	} else {
		resp["cart_item"] = nil
	}
	return c.JSON(resp)
}

// HandleRemove deletes one cart line.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item ID",
		})
	}

	if err := h.service.Remove(middleware.SessionID(c), uint(id)); err != nil {
		log.Printf("Error removing cart line %d: %v", id, err)
		return respondError(c, "Could not remove item from cart", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item removed from cart",
	})
}

// HandleClear deletes all of the session's cart lines.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(middleware.SessionID(c)); err != nil {
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart cleared",
	})
}
