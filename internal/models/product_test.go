package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	var empty StringList
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = StringList{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"https://cdn.example.com/a.png","https://cdn.example.com/b.png"}`, v)
}

func TestStringListScan(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(`{"https://cdn.example.com/a.png","https://cdn.example.com/b.png"}`))
	assert.Equal(t, StringList{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}, list)

	require.NoError(t, list.Scan(nil))
	assert.Nil(t, list)
	assert.Equal(t, []string{}, list.OrEmpty())
}

func TestProductView(t *testing.T) {
	desc := "Over-ear, noise cancelling"
	p := Product{
		Name:        "Luxe Wireless Headphones",
		Slug:        "luxe-wireless-headphones",
		Description: &desc,
		Category:    "Audio",
		Price:       decimal.RequireFromString("249.5"),
		Stock:       0,
	}

	view := p.View()
	assert.Equal(t, "249.50", view.Price)
	assert.Equal(t, desc, view.Description)
	assert.False(t, view.InStock)
	assert.NotNil(t, view.Images)
	assert.Empty(t, view.Images)
}
