// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/luxeshop/luxe-backend/internal/cache"
	"github.com/luxeshop/luxe-backend/internal/models"
	"github.com/luxeshop/luxe-backend/internal/repository"
	"github.com/luxeshop/luxe-backend/internal/utils"
)

var (
	// ErrSlugTaken is returned when the derived slug already belongs to another product.
	ErrSlugTaken = errors.New("a product with this slug already exists")
	// ErrProductCreateFailed hides storage failures from callers; the cause is logged.
	ErrProductCreateFailed = errors.New("failed to create product")
)

const listingCachePattern = "products:*"

type ProductService struct {
	products repository.ProductRepository
	cache    cache.Cache
	group    singleflight.Group
}

func NewProductService(products repository.ProductRepository, c cache.Cache) *ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProductService{
		products: products,
		cache:    c,
	}
}

// CreateProduct validates raw input, derives the slug and inserts the
// product. It returns a *ValidationError, ErrSlugTaken or
// ErrProductCreateFailed on failure.
func (s *ProductService) CreateProduct(ctx context.Context, raw RawProduct) (*models.Product, error) {
	draft, err := ValidateProduct(raw)
	if err != nil {
		return nil, err
	}

	source, field := draft.Name, "name"
	if draft.Slug != "" {
		source, field = draft.Slug, "slug"
	}
	slug := utils.Slugify(source)
	if slug == "" {
		return nil, &ValidationError{Fields: []utils.ValidationError{{
			Field:   "slug",
			Tag:     "slug",
			Message: fmt.Sprintf("Slug could not be derived from %s, use letters or digits", field),
		}}}
	}

	product, err := s.insert(ctx, draft, slug)
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"slug":       product.Slug,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) insert(ctx context.Context, draft *ProductDraft, slug string) (product *models.Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).WithField("slug", slug).Error("Product insert panicked")
			product, err = nil, ErrProductCreateFailed
		}
	}()

	product = &models.Product{
		Name:        draft.Name,
		Slug:        slug,
		Description: draft.Description,
		Category:    draft.Category,
		Price:       draft.Price.Round(2),
		Stock:       draft.Stock,
	}
	// An empty list is stored as NULL.
	if len(draft.Images) > 0 {
		product.Images = models.StringList(draft.Images)
	}

	if err := s.products.Insert(ctx, product); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			logrus.WithField("slug", slug).Warn("Product slug already taken")
			return nil, ErrSlugTaken
		}
		logrus.WithError(err).WithField("slug", slug).Error("Failed to create product")
		return nil, ErrProductCreateFailed
	}

	return product, nil
}

func (s *ProductService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, listingCachePattern); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate product listing cache")
	}
}

func listingCacheKey(limit int) string {
	return fmt.Sprintf("products:list:%d", limit)
}

// ListProducts returns up to limit products, newest first, reading through
// the listing cache. Concurrent misses for the same key share one query.
func (s *ProductService) ListProducts(ctx context.Context, limit int) ([]models.ProductView, error) {
	limit = utils.ClampLimit(limit)
	key := listingCacheKey(limit)

	var views []models.ProductView
	hit, err := s.cache.Get(ctx, key, &views)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Product listing cache read failed")
	}
	if hit {
		return views, nil
	}

	// The shared call serves every waiter, so one caller's cancellation must
	// not fail the others.
	shared := context.WithoutCancel(ctx)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, err := s.products.List(shared, limit)
		if err != nil {
			return nil, err
		}

		views := models.ProductViews(products)
		if err := s.cache.Set(shared, key, views); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Product listing cache write failed")
		}
		return views, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.ProductView), nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

func (s *ProductService) CountProducts(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}
