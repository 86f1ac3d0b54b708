// internal/services/export_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/luxeshop/luxe-backend/internal/models"
	"github.com/luxeshop/luxe-backend/internal/repository"
)

const exportBatchSize = 200

var exportHeaders = []string{
	"ID", "Name", "Slug", "Category", "Price", "Stock",
	"Images", "CreatedAt", "UpdatedAt",
}

type ExportService struct {
	products repository.ProductRepository
}

func NewExportService(products repository.ProductRepository) *ExportService {
	return &ExportService{products: products}
}

// WriteProductsXLSX renders the whole catalog as a single-sheet workbook.
func (s *ExportService) WriteProductsXLSX(ctx context.Context, w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	err = s.products.Each(ctx, exportBatchSize, func(products []models.Product) error {
		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID.String())
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			row.AddCell().SetInt(p.Stock)
			row.AddCell().SetValue(strings.Join(p.Images.OrEmpty(), "\n"))
			row.AddCell().SetValue(p.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
