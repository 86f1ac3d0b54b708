// internal/services/checkout_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/luxeshop/luxe-backend/internal/cart"
	"github.com/luxeshop/luxe-backend/internal/config"
	"github.com/luxeshop/luxe-backend/internal/models"
	"github.com/luxeshop/luxe-backend/internal/repository"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutFailed is the only error callers see when the provider call fails.
	ErrCheckoutFailed = errors.New("unable to create checkout session")
)

// SessionCreator creates hosted checkout sessions. *session.Client satisfies it.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type CheckoutResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type CheckoutService struct {
	sessions   SessionCreator
	orders     repository.OrderRepository
	currency   string
	successURL string
	cancelURL  string
}

// NewStripeSessionClient returns a checkout session client bound to key.
func NewStripeSessionClient(key string) *session.Client {
	return &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}
}

func NewCheckoutService(sessions SessionCreator, orders repository.OrderRepository, cfg *config.Config) *CheckoutService {
	currency := cfg.Payment.Currency
	if currency == "" {
		currency = "usd"
	}
	return &CheckoutService{
		sessions:   sessions,
		orders:     orders,
		currency:   currency,
		successURL: cfg.Frontend.BaseURL + "/checkout/success",
		cancelURL:  cfg.Frontend.BaseURL + "/checkout/cancel",
	}
}

// UnitAmount converts a price to integer minor units, rounding half away from zero.
func UnitAmount(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateSession requests a hosted checkout page for items. No idempotency
// key is sent, so repeated calls create separate sessions.
func (s *CheckoutService) CreateSession(ctx context.Context, items []cart.Item, userID string) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  make([]*stripe.CheckoutSessionLineItemParams, 0, len(items)),
		SuccessURL: stripe.String(s.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Context = ctx

	for _, item := range items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(UnitAmount(item.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	if userID != "" {
		params.ClientReferenceID = stripe.String(userID)
	}

	sess, err := s.sessions.New(params)
	if err != nil {
		logrus.WithError(err).WithField("items", len(items)).Error("Failed to create checkout session")
		return nil, ErrCheckoutFailed
	}
	if sess == nil || sess.URL == "" {
		logrus.WithField("items", len(items)).Error("Checkout session returned without a URL")
		return nil, ErrCheckoutFailed
	}

	s.recordOrder(ctx, sess.ID, items, userID)

	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

// recordOrder stores a pending order for the session. Failures are logged
// only; the shopper already has a payment page.
func (s *CheckoutService) recordOrder(ctx context.Context, sessionID string, items []cart.Item, userID string) {
	if s.orders == nil {
		return
	}

	order := &models.Order{
		Total:           cart.State{Items: items}.Subtotal().Round(2),
		StripeSessionID: sessionID,
	}
	if userID != "" {
		order.UserID = &userID
	}

	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			logrus.WithField("product_id", item.ProductID).Warn("Skipping order line with invalid product id")
			continue
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: productID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price.Round(2),
		})
	}

	if err := s.orders.CreatePending(ctx, order); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to record pending order")
	}
}

func (s *CheckoutService) GetOrderBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	if s.orders == nil {
		return nil, repository.ErrOrderNotFound
	}
	return s.orders.FindBySessionID(ctx, sessionID)
}
