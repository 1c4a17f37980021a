package handlers

import (
	"errors"

	"store/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the shared error taxonomy onto HTTP statuses:
// missing records to 404, cart/payment/status rule violations to 400,
// order number collisions to 409, provider failures to 502, everything
// else to 500.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrPaymentNotConfirmed),
		errors.Is(err, models.ErrInvalidOrderStatus):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateOrderNumber):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrExternalService):
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// respondValidationError reports per-field validation failures.
func respondValidationError(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = "failed on the '" + e.Tag() + "' tag"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
