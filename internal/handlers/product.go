// internal/handlers/product.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/luxeshop/luxe-backend/internal/i18n"
	"github.com/luxeshop/luxe-backend/internal/repository"
	"github.com/luxeshop/luxe-backend/internal/services"
	"github.com/luxeshop/luxe-backend/internal/utils"
)

const (
	ShopListLimit  = 24
	AdminListLimit = 50

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ProductHandler struct {
	productService *services.ProductService
	exportService  *services.ExportService
}

func NewProductHandler(productService *services.ProductService, exportService *services.ExportService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		exportService:  exportService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	h.list(c, ShopListLimit)
}

// GET /admin/products
func (h *ProductHandler) GetAdminProducts(c *gin.Context) {
	h.list(c, AdminListLimit)
}

func (h *ProductHandler) list(c *gin.Context, defaultLimit int) {
	limit := utils.GetLimitParam(c, defaultLimit)

	products, err := h.productService.ListProducts(c.Request.Context(), limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list products")
		utils.InternalErrorResponse(c, "")
		return
	}

	meta := utils.ListMeta{Limit: limit, Returned: len(products)}
	if total, err := h.productService.CountProducts(c.Request.Context()); err == nil {
		meta.Total = total
	}

	utils.ListResponse(c, gin.H{"products": products}, meta)
}

// GET /products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		logrus.WithError(err).Error("Failed to load product")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product.View(),
	})
}

// POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	raw, err := bindRawProduct(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), raw)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			utils.ValidationErrorResponse(c, validationErr.Fields)
		case errors.Is(err, services.ErrSlugTaken):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductSlugTaken))
		default:
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyProductCreateFailed))
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product.View(),
	})
}

// GET /admin/products/export
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteProductsXLSX(c.Request.Context(), &buf); err != nil {
		logrus.WithError(err).Error("Failed to export products")
		utils.InternalErrorResponse(c, "")
		return
	}

	filename := "products_" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// bindRawProduct reads the product payload from JSON or form values.
// Form fields keep their []string values; the schema coerces both shapes.
func bindRawProduct(c *gin.Context) (services.RawProduct, error) {
	contentType := c.ContentType()

	if contentType == gin.MIMEJSON || strings.HasSuffix(contentType, "+json") {
		raw := services.RawProduct{}
		decoder := json.NewDecoder(c.Request.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	if contentType == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	raw := services.RawProduct{}
	for key, values := range c.Request.PostForm {
		raw[key] = values
	}
	return raw, nil
}
