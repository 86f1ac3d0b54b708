// internal/models/product.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null"`
	Slug        string          `json:"slug" gorm:"size:80;not null;uniqueIndex"`
	Description *string         `json:"description" gorm:"type:text"`
	Category    string          `json:"category" gorm:"size:100;not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Images      StringList      `json:"images"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductView is the API representation of a product: price as a fixed-point
// string and images always present.
type ProductView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Stock       int      `json:"stock"`
	InStock     bool     `json:"in_stock"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func (p *Product) View() ProductView {
	view := ProductView{
		ID:        p.ID.String(),
		Name:      p.Name,
		Slug:      p.Slug,
		Category:  p.Category,
		Price:     p.Price.StringFixed(2),
		Stock:     p.Stock,
		InStock:   p.Stock > 0,
		Images:    p.Images.OrEmpty(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Description != nil {
		view.Description = *p.Description
	}
	return view
}

func ProductViews(products []Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = products[i].View()
	}
	return views
}
