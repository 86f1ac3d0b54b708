// internal/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/luxeshop/luxe-backend/internal/cart"
	"github.com/luxeshop/luxe-backend/internal/i18n"
	"github.com/luxeshop/luxe-backend/internal/middleware"
	"github.com/luxeshop/luxe-backend/internal/repository"
	"github.com/luxeshop/luxe-backend/internal/utils"
)

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"max=999"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

// CartView is the cart as returned to the storefront.
type CartView struct {
	Items      []cart.Item `json:"items"`
	Subtotal   string      `json:"subtotal"`
	Count      int         `json:"count"`
	IsCartOpen bool        `json:"is_cart_open"`
}

type CartHandler struct {
	registry *cart.Registry
	products repository.ProductRepository
}

func NewCartHandler(registry *cart.Registry, products repository.ProductRepository) *CartHandler {
	return &CartHandler{
		registry: registry,
		products: products,
	}
}

// session resolves the caller's cart. It writes the error response itself
// and returns nil when no cart session is attached to the request.
func (h *CartHandler) session(c *gin.Context) *cart.Session {
	id, ok := middleware.GetCartSessionID(c)
	if !ok {
		lang := utils.GetLangFromContext(c)
		utils.ErrorResponse(c, http.StatusBadRequest, "CART_UNAVAILABLE", i18n.T(lang, i18n.KeyCartUnavailable), nil)
		return nil
	}
	return h.registry.Session(c.Request.Context(), id)
}

func newCartView(s *cart.Session) CartView {
	state := s.Cart.State()
	return CartView{
		Items:      state.Items,
		Subtotal:   state.Subtotal().StringFixed(2),
		Count:      state.Count(),
		IsCartOpen: s.Drawer.IsOpen(),
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	s := h.session(c)
	if s == nil {
		return
	}
	utils.SuccessResponse(c, gin.H{"cart": newCartView(s)})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	s := h.session(c)
	if s == nil {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		logrus.WithError(err).Error("Failed to load product for cart")
		utils.InternalErrorResponse(c, "")
		return
	}

	item := cart.Item{
		ProductID: product.ID.String(),
		Slug:      product.Slug,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	s.Cart.AddItem(c.Request.Context(), item)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    newCartView(s),
	})
}

// PATCH /cart/items/:product_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	s := h.session(c)
	if s == nil {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "quantity"), err.Error())
		return
	}

	s.Cart.UpdateQuantity(c.Request.Context(), c.Param("product_id"), *req.Quantity)
	utils.SuccessResponse(c, gin.H{"cart": newCartView(s)})
}

// DELETE /cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	s := h.session(c)
	if s == nil {
		return
	}

	s.Cart.RemoveItem(c.Request.Context(), c.Param("product_id"))
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
		"cart":    newCartView(s),
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	s := h.session(c)
	if s == nil {
		return
	}

	s.Cart.Clear(c.Request.Context())
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCleared),
		"cart":    newCartView(s),
	})
}

// POST /cart/drawer/open
func (h *CartHandler) OpenDrawer(c *gin.Context) {
	h.drawer(c, func(s *cart.Session) { s.Drawer.Open(c.Request.Context()) })
}

// POST /cart/drawer/close
func (h *CartHandler) CloseDrawer(c *gin.Context) {
	h.drawer(c, func(s *cart.Session) { s.Drawer.Close(c.Request.Context()) })
}

// POST /cart/drawer/toggle
func (h *CartHandler) ToggleDrawer(c *gin.Context) {
	h.drawer(c, func(s *cart.Session) { s.Drawer.Toggle(c.Request.Context()) })
}

func (h *CartHandler) drawer(c *gin.Context, fn func(*cart.Session)) {
	s := h.session(c)
	if s == nil {
		return
	}
	fn(s)
	utils.SuccessResponse(c, gin.H{"is_cart_open": s.Drawer.IsOpen()})
}
