package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"github.com/luxeshop/luxe-backend/internal/cart"
	"github.com/luxeshop/luxe-backend/internal/config"
	"github.com/luxeshop/luxe-backend/internal/database"
	"github.com/luxeshop/luxe-backend/internal/models"
	"github.com/luxeshop/luxe-backend/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Payment:  config.PaymentConfig{Currency: "usd"},
		Frontend: config.FrontendConfig{BaseURL: "https://shop.example.com"},
	}
}

func cartItems() []cart.Item {
	return []cart.Item{
		{ProductID: uuid.NewString(), Name: "Headphones", Price: decimal.RequireFromString("19.99"), Quantity: 2},
		{ProductID: uuid.NewString(), Name: "Case", Price: decimal.RequireFromString("0.015"), Quantity: 1},
	}
}

func TestUnitAmount(t *testing.T) {
	tests := map[string]int64{
		"19.99":  1999,
		"0.015":  2,
		"10":     1000,
		"0.004":  0,
		"1.005":  101,
		"999.99": 99999,
	}
	for price, want := range tests {
		assert.Equal(t, want, UnitAmount(decimal.RequireFromString(price)), price)
	}
}

func TestCheckoutService_CreateSession(t *testing.T) {
	sessions := &fakeSessions{result: &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}}
	orders := repository.NewOrderRepository(database.OpenTestDB(t))
	service := NewCheckoutService(sessions, orders, testConfig())
	ctx := context.Background()

	items := cartItems()
	result, err := service.CreateSession(ctx, items, "user_123")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", result.URL)

	require.Len(t, sessions.calls, 1)
	params := sessions.calls[0]
	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, "https://shop.example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}", *params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/checkout/cancel", *params.CancelURL)
	assert.Equal(t, "user_123", *params.ClientReferenceID)

	require.Len(t, params.LineItems, 2)
	first := params.LineItems[0]
	assert.Equal(t, "usd", *first.PriceData.Currency)
	assert.Equal(t, "Headphones", *first.PriceData.ProductData.Name)
	assert.Equal(t, int64(1999), *first.PriceData.UnitAmount)
	assert.Equal(t, int64(2), *first.Quantity)
	assert.Equal(t, int64(2), *params.LineItems[1].PriceData.UnitAmount)

	order, err := service.GetOrderBySession(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, "40.00", order.Total.StringFixed(2))
	assert.Len(t, order.Items, 2)
	require.NotNil(t, order.UserID)
	assert.Equal(t, "user_123", *order.UserID)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	sessions := &fakeSessions{}
	service := NewCheckoutService(sessions, nil, testConfig())

	_, err := service.CreateSession(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, sessions.calls)
}

func TestCheckoutService_ProviderFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("error", func(t *testing.T) {
		service := NewCheckoutService(&fakeSessions{err: errors.New("card_declined")}, nil, testConfig())
		result, err := service.CreateSession(ctx, cartItems(), "")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrCheckoutFailed)
	})

	t.Run("missing url", func(t *testing.T) {
		service := NewCheckoutService(&fakeSessions{result: &stripe.CheckoutSession{ID: "cs_1"}}, nil, testConfig())
		_, err := service.CreateSession(ctx, cartItems(), "")
		assert.ErrorIs(t, err, ErrCheckoutFailed)
	})
}

func TestCheckoutService_NoIdempotency(t *testing.T) {
	sessions := &fakeSessions{result: &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/1"}}
	service := NewCheckoutService(sessions, nil, testConfig())
	ctx := context.Background()

	_, err := service.CreateSession(ctx, cartItems(), "")
	require.NoError(t, err)
	_, err = service.CreateSession(ctx, cartItems(), "")
	require.NoError(t, err)

	assert.Len(t, sessions.calls, 2)
	assert.Nil(t, sessions.calls[0].IdempotencyKey)
}

type failingOrders struct{}

func (failingOrders) CreatePending(context.Context, *models.Order) error {
	return errors.New("db down")
}

func (failingOrders) FindBySessionID(context.Context, string) (*models.Order, error) {
	return nil, repository.ErrOrderNotFound
}

func TestCheckoutService_OrderFailureDoesNotFailCheckout(t *testing.T) {
	sessions := &fakeSessions{result: &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/1"}}
	service := NewCheckoutService(sessions, failingOrders{}, testConfig())

	result, err := service.CreateSession(context.Background(), cartItems(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/1", result.URL)
}
