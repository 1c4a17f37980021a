package services

import (
	"context"
	"fmt"
	"log"

	"store/internal/models"
	"store/internal/repositories"
	"store/pkg/payments"
	"store/pkg/rabbitmq"
)

// PaymentGateway is the checkout pipeline's view of the payment
// processor: create an intent for an amount, read an intent's status.
// Provider-side retry and failure behavior is owned by the provider.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error)
	GetPaymentIntent(ctx context.Context, id string) (*payments.Intent, error)
}

// OrderNotifier publishes order events for the notification consumer.
type OrderNotifier interface {
	PublishOrderCreated(event rabbitmq.OrderCreatedEvent) error
}

// PlaceOrderRequest carries the customer and payment details for order
// placement.
type PlaceOrderRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	Address         string `json:"address" validate:"required,max=500"`
	City            string `json:"city" validate:"required,max=100"`
	State           string `json:"state" validate:"required,max=50"`
	Zip             string `json:"zip" validate:"required,max=20"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// CheckoutService drives the checkout pipeline: payment intent
// creation, order placement, and confirmation lookup.
type CheckoutService struct {
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	gateway     PaymentGateway
	notifier    OrderNotifier
	pricing     PricingConfig
	orderPrefix string
}

// NewCheckoutService creates a new CheckoutService. gateway and
// notifier may be nil when the corresponding provider is not
// configured; placement then skips intent verification and event
// publishing respectively.
func NewCheckoutService(
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	gateway PaymentGateway,
	notifier OrderNotifier,
	pricing PricingConfig,
	orderPrefix string,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		notifier:    notifier,
		pricing:     pricing,
		orderPrefix: orderPrefix,
	}
}

// CreatePaymentIntent prices the session's cart and asks the gateway
// for a payment intent covering the total.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, sessionID, customerEmail string) (*payments.Intent, Totals, error) {
	lines, err := s.cartRepo.ListBySession(sessionID)
	if err != nil {
		return nil, Totals{}, err
	}
	if len(lines) == 0 {
		return nil, Totals{}, models.ErrEmptyCart
	}

	totals := CalculateTotals(lines, s.pricing)

	if s.gateway == nil {
		return nil, Totals{}, fmt.Errorf("payment gateway not configured: %w", models.ErrExternalService)
	}
	intent, err := s.gateway.CreatePaymentIntent(ctx, totals.Total, s.pricing.Currency, map[string]string{
		"session_id":     sessionID,
		"customer_email": customerEmail,
	})
	if err != nil {
		return nil, Totals{}, fmt.Errorf("create payment intent: %v: %w", err, models.ErrExternalService)
	}
	return intent, totals, nil
}

// PlaceOrder converts the session's cart into an immutable order after
// a confirmed payment.
//
// Pricing is recomputed from the cart lines at commit time, not from
// any earlier page view; a price change between display and commit is
// accepted, not re-validated. Stock is the one thing guarded: the
// placement transaction decrements conditionally and aborts entirely
// on shortage, so partial orders never persist. The order created
// event after commit is best-effort; a publish failure is logged and
// never undoes the order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, req PlaceOrderRequest) (*models.Order, error) {
	lines, err := s.cartRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	if req.PaymentIntentID == "" {
		return nil, models.ErrPaymentNotConfirmed
	}
	if s.gateway != nil {
		intent, err := s.gateway.GetPaymentIntent(ctx, req.PaymentIntentID)
		if err != nil {
			return nil, fmt.Errorf("verify payment intent: %v: %w", err, models.ErrExternalService)
		}
		if intent.Status != payments.IntentSucceeded {
			return nil, fmt.Errorf("payment intent %s has status %s: %w",
				req.PaymentIntentID, intent.Status, models.ErrPaymentNotConfirmed)
		}
	}

	totals := CalculateTotals(lines, s.pricing)

	orderNumber, err := models.GenerateOrderNumber(s.orderPrefix)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     orderNumber,
		CustomerName:    req.Name,
		CustomerEmail:   req.Email,
		CustomerPhone:   req.Phone,
		ShippingAddress: req.Address,
		ShippingCity:    req.City,
		ShippingState:   req.State,
		ShippingZip:     req.Zip,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		Status:          models.StatusProcessing,
		PaymentID:       req.PaymentIntentID,
		PaymentStatus:   payments.IntentSucceeded,
	}
	for i := range lines {
		line := &lines[i]
		if line.Product == nil {
			return nil, fmt.Errorf("cart line %d references product %d: %w",
				line.ID, line.ProductID, models.ErrProductNotFound)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			Subtotal:    line.Subtotal(),
		})
	}

	if err := s.orderRepo.Place(order, sessionID); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		event := rabbitmq.OrderCreatedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerEmail: order.CustomerEmail,
			Total:         order.Total,
		}
		if err := s.notifier.PublishOrderCreated(event); err != nil {
			log.Printf("Warning: failed to publish order created event for %s: %v", order.OrderNumber, err)
		}
	} else {
		log.Printf("Order notifier not configured, skipping event for %s", order.OrderNumber)
	}

	return order, nil
}

// Confirmation retrieves an order with its items by order number.
func (s *CheckoutService) Confirmation(orderNumber string) (*models.Order, error) {
	return s.orderRepo.GetByOrderNumber(orderNumber)
}

// UpdateOrderStatus moves an order along its lifecycle. Placement
// leaves orders in "processing"; shipped and cancelled are applied
// manually through this call.
func (s *CheckoutService) UpdateOrderStatus(id uint, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", models.ErrInvalidOrderStatus, status)
	}
	return s.orderRepo.UpdateStatus(id, status)
}
