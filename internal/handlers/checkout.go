// internal/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/luxeshop/luxe-backend/internal/i18n"
	"github.com/luxeshop/luxe-backend/internal/repository"
	"github.com/luxeshop/luxe-backend/internal/services"
	"github.com/luxeshop/luxe-backend/internal/utils"
)

type CheckoutHandler struct {
	carts           *CartHandler
	checkoutService *services.CheckoutService
}

func NewCheckoutHandler(carts *CartHandler, checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		carts:           carts,
		checkoutService: checkoutService,
	}
}

// POST /checkout
//
// With ?redirect=true the shopper is sent straight to the hosted payment
// page; otherwise the session URL is returned for the client to follow.
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	s := h.carts.session(c)
	if s == nil {
		return
	}

	items := s.Cart.Items()
	if len(items) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
		return
	}

	userID, _ := utils.GetUserIDFromContext(c)
	result, err := h.checkoutService.CreateSession(c.Request.Context(), items, userID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
			return
		}
		utils.CheckoutFailedResponse(c)
		return
	}

	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusSeeOther, result.URL)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"session_id": result.SessionID,
		"url":        result.URL,
	})
}

// GET /checkout/success
//
// The payment provider returns the shopper here; the cart is emptied and the
// pending order for the session, if any, is echoed back.
func (h *CheckoutHandler) CheckoutSuccess(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	s := h.carts.session(c)
	if s == nil {
		return
	}
	s.Cart.Clear(c.Request.Context())

	data := gin.H{"message": i18n.T(lang, i18n.KeyCheckoutSucceeded)}

	if sessionID := c.Query("session_id"); sessionID != "" {
		order, err := h.checkoutService.GetOrderBySession(c.Request.Context(), sessionID)
		switch {
		case err == nil:
			data["order"] = order
		case errors.Is(err, repository.ErrOrderNotFound):
		default:
			logrus.WithError(err).WithField("session_id", sessionID).Warn("Failed to load order for checkout session")
		}
	}

	utils.SuccessResponse(c, data)
}

// GET /checkout/cancel
func (h *CheckoutHandler) CheckoutCancelled(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCheckoutCancelled),
	})
}
