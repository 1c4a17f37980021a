package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"store/internal/models"
	"store/internal/services"
	"store/pkg/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func checkoutLines() []models.CartItem {
	return []models.CartItem{
		{ID: 1, SessionID: "sess-1", ProductID: 1, Quantity: 2,
			Product: &models.Product{ID: 1, Name: "Premium Wireless Headphones", Price: 2999, Stock: 50}},
	}
}

func placeRequest() services.PlaceOrderRequest {
	return services.PlaceOrderRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Address:         "12 Analytical Way",
		City:            "London",
		State:           "LN",
		Zip:             "10001",
		PaymentIntentID: "pi_123",
	}
}

func TestCheckoutService_CreatePaymentIntent(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := services.NewCheckoutService(cartRepo, orderRepo, gateway, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	gateway.On("CreatePaymentIntent", mock.Anything, int64(7491), "usd",
		map[string]string{"session_id": "sess-1", "customer_email": "ada@example.com"}).
		Return(&payments.Intent{ID: "pi_123", ClientSecret: "pi_123_secret", Status: "requires_payment_method"}, nil).Once()

	intent, totals, err := service.CreatePaymentIntent(context.Background(), "sess-1", "ada@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, int64(7491), totals.Total)
	cartRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCheckoutService_CreatePaymentIntent_EmptyCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := services.NewCheckoutService(cartRepo, orderRepo, gateway, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return([]models.CartItem{}, nil).Once()

	_, _, err := service.CreatePaymentIntent(context.Background(), "sess-1", "")

	assert.ErrorIs(t, err, models.ErrEmptyCart)
	gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_CreatePaymentIntent_GatewayFailure(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := services.NewCheckoutService(cartRepo, orderRepo, gateway, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	gateway.On("CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("stripe error 503: unavailable")).Once()

	_, _, err := service.CreatePaymentIntent(context.Background(), "sess-1", "")

	assert.ErrorIs(t, err, models.ErrExternalService)
}

func TestCheckoutService_PlaceOrder_Success(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	notifier := new(MockOrderNotifier)
	service := services.NewCheckoutService(cartRepo, orderRepo, gateway, notifier, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	gateway.On("GetPaymentIntent", mock.Anything, "pi_123").
		Return(&payments.Intent{ID: "pi_123", Status: payments.IntentSucceeded}, nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), "sess-1").Return(nil).Once()
	notifier.On("PublishOrderCreated", mock.AnythingOfType("rabbitmq.OrderCreatedEvent")).Return(nil).Once()

	order, err := service.PlaceOrder(context.Background(), "sess-1", placeRequest())

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "JE-"))
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, int64(5998), order.Subtotal)
	assert.Equal(t, int64(494), order.Tax)
	assert.Equal(t, int64(999), order.Shipping)
	assert.Equal(t, int64(7491), order.Total)
	assert.Equal(t, order.Subtotal+order.Tax+order.Shipping, order.Total)

	// The order item freezes the product state at purchase time.
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Premium Wireless Headphones", order.Items[0].ProductName)
	assert.Equal(t, int64(2999), order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(5998), order.Items[0].Subtotal)

	cartRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	service := services.NewCheckoutService(cartRepo, orderRepo, nil, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return([]models.CartItem{}, nil).Once()

	order, err := service.PlaceOrder(context.Background(), "sess-1", placeRequest())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	orderRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_MissingPaymentReference(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	service := services.NewCheckoutService(cartRepo, orderRepo, nil, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()

	req := placeRequest()
	req.PaymentIntentID = ""
	order, err := service.PlaceOrder(context.Background(), "sess-1", req)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrPaymentNotConfirmed)
	orderRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_UnsucceededIntent(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := services.NewCheckoutService(cartRepo, orderRepo, gateway, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	gateway.On("GetPaymentIntent", mock.Anything, "pi_123").
		Return(&payments.Intent{ID: "pi_123", Status: "requires_payment_method"}, nil).Once()

	order, err := service.PlaceOrder(context.Background(), "sess-1", placeRequest())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrPaymentNotConfirmed)
	orderRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_InsufficientStockAborts(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	service := services.NewCheckoutService(cartRepo, orderRepo, nil, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), "sess-1").
		Return(fmt.Errorf("product 1: %w", models.ErrInsufficientStock)).Once()

	order, err := service.PlaceOrder(context.Background(), "sess-1", placeRequest())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestCheckoutService_PlaceOrder_NotifierFailureDoesNotFailOrder(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	notifier := new(MockOrderNotifier)
	service := services.NewCheckoutService(cartRepo, orderRepo, nil, notifier, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), "sess-1").Return(nil).Once()
	notifier.On("PublishOrderCreated", mock.AnythingOfType("rabbitmq.OrderCreatedEvent")).
		Return(fmt.Errorf("broker unreachable")).Once()

	order, err := service.PlaceOrder(context.Background(), "sess-1", placeRequest())

	assert.NoError(t, err)
	assert.NotNil(t, order)
	notifier.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_DuplicateOrderNumberSurfaces(t *testing.T) {
	cartRepo := new(MockCartRepository)
	orderRepo := new(MockOrderRepository)
	service := services.NewCheckoutService(cartRepo, orderRepo, nil, nil, testPricing, "JE")

	cartRepo.On("ListBySession", "sess-1").Return(checkoutLines(), nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), "sess-1").
		Return(fmt.Errorf("order number JE-AAAAAAAAA: %w", models.ErrDuplicateOrderNumber)).Once()

	order, err := service.PlaceOrder(context.Background(), "sess-1", placeRequest())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrDuplicateOrderNumber)
}

func TestCheckoutService_UpdateOrderStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewCheckoutService(nil, orderRepo, nil, nil, testPricing, "JE")

	orderRepo.On("UpdateStatus", uint(1), models.StatusShipped).Return(nil).Once()
	assert.NoError(t, service.UpdateOrderStatus(1, models.StatusShipped))

	err := service.UpdateOrderStatus(1, "delivered")
	assert.ErrorIs(t, err, models.ErrInvalidOrderStatus)
	orderRepo.AssertNotCalled(t, "UpdateStatus", uint(1), "delivered")
	orderRepo.AssertExpectations(t)
}
