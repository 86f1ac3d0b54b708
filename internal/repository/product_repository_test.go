package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxeshop/luxe-backend/internal/database"
	"github.com/luxeshop/luxe-backend/internal/models"
)

func newProduct(name, slug string) *models.Product {
	return &models.Product{
		Name:     name,
		Slug:     slug,
		Category: "audio",
		Price:    decimal.RequireFromString("199.99"),
		Stock:    5,
	}
}

func TestProductRepository_InsertAndFind(t *testing.T) {
	repo := NewProductRepository(database.OpenTestDB(t))
	ctx := context.Background()

	p := newProduct("Luxe Headphones", "luxe-headphones")
	p.Images = models.StringList{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	require.NoError(t, repo.Insert(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)

	found, err := repo.FindBySlug(ctx, "luxe-headphones")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, "199.99", found.Price.StringFixed(2))
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, []string(found.Images))
	assert.Nil(t, found.Description)

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "luxe-headphones", byID.Slug)
}

func TestProductRepository_NilImagesStayNull(t *testing.T) {
	repo := NewProductRepository(database.OpenTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("Plain", "plain")))

	found, err := repo.FindBySlug(ctx, "plain")
	require.NoError(t, err)
	assert.Nil(t, found.Images)
	assert.Equal(t, []string{}, found.View().Images)
}

func TestProductRepository_DuplicateSlug(t *testing.T) {
	repo := NewProductRepository(database.OpenTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("First", "same-slug")))
	err := repo.Insert(ctx, newProduct("Second", "same-slug"))
	assert.ErrorIs(t, err, ErrSlugTaken)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestProductRepository_NotFound(t *testing.T) {
	repo := NewProductRepository(database.OpenTestDB(t))
	ctx := context.Background()

	_, err := repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	repo := NewProductRepository(database.OpenTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, slug := range []string{"oldest", "middle", "newest"} {
		p := newProduct(slug, slug)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Insert(ctx, p))
	}

	products, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "newest", products[0].Slug)
	assert.Equal(t, "middle", products[1].Slug)
	assert.Equal(t, "oldest", products[2].Slug)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "newest", limited[0].Slug)
}

func TestProductRepository_ListStableOnTies(t *testing.T) {
	repo := NewProductRepository(database.OpenTestDB(t))
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, slug := range []string{"a", "b", "c", "d"} {
		p := newProduct(slug, slug)
		p.CreatedAt = created
		require.NoError(t, repo.Insert(ctx, p))
	}

	first, err := repo.List(ctx, 10)
	require.NoError(t, err)
	second, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}
