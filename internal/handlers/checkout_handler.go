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

// CheckoutHandler handles HTTP requests for the checkout pipeline.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/payment-intent", h.HandleCreatePaymentIntent)
	checkoutRoutes.Post("/order", h.HandlePlaceOrder)
	checkoutRoutes.Get("/confirmation/:orderNumber", h.HandleConfirmation)
}

// RegisterAdminRoutes registers order management routes; the caller
// wraps them in auth middleware.
func (h *CheckoutHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// PaymentIntentRequest is the request body for creating a payment intent.
type PaymentIntentRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// HandleCreatePaymentIntent prices the cart and returns the gateway
// client secret for the browser-side confirmation flow.
func (h *CheckoutHandler) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	var req PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	sessionID := middleware.SessionID(c)
	intent, totals, err := h.service.CreatePaymentIntent(c.Context(), sessionID, req.Email)
	if err != nil {
		log.Printf("Error creating payment intent for session %s: %v", sessionID, err)
		return respondError(c, "Could not create payment intent", err)
	}
	return c.JSON(fiber.Map{
		"clientSecret": intent.ClientSecret,
		"amount":       totals.Total,
	})
}

// HandlePlaceOrder converts the cart into an order after payment.
func (h *CheckoutHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	sessionID := middleware.SessionID(c)
	order, err := h.service.PlaceOrder(c.Context(), sessionID, req)
	if err != nil {
		log.Printf("Error placing order for session %s: %v", sessionID, err)
		return respondError(c, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"order_number": order.OrderNumber,
		"order_id":     order.ID,
	})
}

// orderResponse decorates an order with display-formatted amounts.
type orderResponse struct {
	*models.Order
	SubtotalFormatted string `json:"subtotal_formatted"`
	TaxFormatted      string `json:"tax_formatted"`
	ShippingFormatted string `json:"shipping_formatted"`
	TotalFormatted    string `json:"total_formatted"`
}

// HandleConfirmation returns an order with its items by order number.
func (h *CheckoutHandler) HandleConfirmation(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	order, err := h.service.Confirmation(orderNumber)
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(orderResponse{
		Order:             order,
		SubtotalFormatted: models.FormatCents(order.Subtotal),
		TaxFormatted:      models.FormatCents(order.Tax),
		ShippingFormatted: models.FormatCents(order.Shipping),
		TotalFormatted:    models.FormatCents(order.Total),
	})
}

// UpdateOrderStatusRequest is the request body for status transitions.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus applies a manual order status transition.
func (h *CheckoutHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order ID",
		})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateOrderStatus(uint(id), req.Status); err != nil {
		log.Printf("Error updating order %d status: %v", id, err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated to " + req.Status,
	})
}
