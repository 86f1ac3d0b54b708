// internal/services/product_schema.go
package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/luxeshop/luxe-backend/internal/utils"
)

// RawProduct is untyped product input as decoded from JSON or collected
// from form values.
type RawProduct map[string]interface{}

// ProductDraft is a product that passed coercion. Validate tags carry the
// range rules.
type ProductDraft struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,lt=100000000"`
	Stock       int             `json:"stock" validate:"gte=0,lte=2147483647"`
	Category    string          `json:"category" validate:"required,max=100"`
	Images      []string        `json:"images" validate:"omitempty,dive,http_url"`
	Slug        string          `json:"slug"`
}

// ValidationError lists every rule a product input violated, ordered by field.
type ValidationError struct {
	Fields []utils.ValidationError
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, ", ")
}

var productFieldOrder = map[string]int{
	"name":        0,
	"description": 1,
	"price":       2,
	"stock":       3,
	"category":    4,
	"images":      5,
	"slug":        6,
}

// ValidateProduct coerces raw input into a draft and checks it. It either
// returns a draft or a *ValidationError, never both.
func ValidateProduct(raw RawProduct) (*ProductDraft, error) {
	var errs []utils.ValidationError
	failed := make(map[string]bool)
	fail := func(field, tag, message string) {
		failed[field] = true
		errs = append(errs, utils.ValidationError{Field: field, Tag: tag, Message: message})
	}

	draft := &ProductDraft{}

	draft.Name, _ = coerceString(raw, "name", fail)
	if description, ok := coerceString(raw, "description", fail); ok && description != "" {
		draft.Description = &description
	}
	draft.Category, _ = coerceString(raw, "category", fail)
	draft.Slug, _ = coerceString(raw, "slug", fail)

	if price, ok := coercePrice(raw["price"], fail); ok {
		draft.Price = price
	}
	if stock, ok := coerceStock(raw["stock"], fail); ok {
		draft.Stock = stock
	}
	draft.Images = coerceImages(raw["images"], fail)

	if err := utils.ValidateStruct(draft); err != nil {
		for _, fe := range utils.GetValidationErrors(err) {
			// A field that could not be coerced already carries its error.
			if !failed[fe.Field] {
				errs = append(errs, fe)
			}
		}
	}

	if len(errs) > 0 {
		sort.SliceStable(errs, func(i, j int) bool {
			return productFieldOrder[errs[i].Field] < productFieldOrder[errs[j].Field]
		})
		return nil, &ValidationError{Fields: dedupeImageErrors(errs)}
	}

	return draft, nil
}

func fieldLabel(field string) string {
	return strings.ToUpper(field[:1]) + field[1:]
}

// coerceString accepts a string (or a single form value) and trims it.
// Missing and null values report ok=false without an error.
func coerceString(raw RawProduct, field string, fail func(field, tag, message string)) (string, bool) {
	switch v := raw[field].(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(v), true
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return strings.TrimSpace(v[0]), true
	default:
		fail(field, "type", fieldLabel(field)+" must be a string")
		return "", false
	}
}

func coercePrice(value interface{}, fail func(field, tag, message string)) (decimal.Decimal, bool) {
	var (
		price decimal.Decimal
		err   error
	)

	switch v := value.(type) {
	case nil:
		fail("price", "required", "Price is required")
		return decimal.Zero, false
	case json.Number:
		price, err = decimal.NewFromString(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			fail("price", "required", "Price is required")
			return decimal.Zero, false
		}
		price, err = decimal.NewFromString(s)
	case []string:
		if len(v) == 0 {
			fail("price", "required", "Price is required")
			return decimal.Zero, false
		}
		return coercePrice(v[0], fail)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			err = fmt.Errorf("not finite")
		} else {
			price = decimal.NewFromFloat(v)
		}
	case int:
		price = decimal.NewFromInt(int64(v))
	case int64:
		price = decimal.NewFromInt(v)
	case decimal.Decimal:
		price = v
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}

	if err != nil {
		fail("price", "number", "Price must be a number")
		return decimal.Zero, false
	}

	// Stored as decimal(10,2); sub-cent input is rounded before range checks.
	return price.Round(2), true
}

func coerceStock(value interface{}, fail func(field, tag, message string)) (int, bool) {
	var (
		f   float64
		err error
	)

	switch v := value.(type) {
	case nil:
		fail("stock", "required", "Stock is required")
		return 0, false
	case int:
		return v, true
	case int64:
		f = float64(v)
	case json.Number:
		f, err = strconv.ParseFloat(v.String(), 64)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			fail("stock", "required", "Stock is required")
			return 0, false
		}
		f, err = strconv.ParseFloat(s, 64)
	case []string:
		if len(v) == 0 {
			fail("stock", "required", "Stock is required")
			return 0, false
		}
		return coerceStock(v[0], fail)
	case float64:
		f = v
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		fail("stock", "number", "Stock must be a number")
		return 0, false
	}
	if f != math.Trunc(f) {
		fail("stock", "int", "Stock must be a whole number")
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		fail("stock", "lte", "Stock is too large")
		return 0, false
	}
	return int(f), true
}

// coerceImages accepts a JSON array of strings, repeated form values or a
// single string. Blank entries are dropped.
func coerceImages(value interface{}, fail func(field, tag, message string)) []string {
	var images []string

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		images = []string{v}
	case []string:
		images = v
	case []interface{}:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				fail("images", "url", "Each image must be a valid URL")
				return nil
			}
			images = append(images, s)
		}
	default:
		fail("images", "type", "Images must be a list of URLs")
		return nil
	}

	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

// dedupeImageErrors collapses one error per bad image into a single entry.
func dedupeImageErrors(errs []utils.ValidationError) []utils.ValidationError {
	out := errs[:0]
	seenImages := false
	for _, e := range errs {
		if e.Field == "images" {
			if seenImages {
				continue
			}
			seenImages = true
		}
		out = append(out, e)
	}
	return out
}
