// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON name so errors line up with request payloads.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Money is validated as its float approximation; bounds are whole numbers.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(e),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// fieldPath strips the struct name and any slice index from the namespace:
// "ProductDraft.images[2]" becomes "images".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.Index(ns, "["); i >= 0 {
		ns = ns[:i]
	}
	return strings.ToLower(ns)
}

func fieldLabel(e validator.FieldError) string {
	label := fieldPath(e)
	if label == "" {
		return e.Field()
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func getValidationMessage(e validator.FieldError) string {
	label := fieldLabel(e)
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "url", "http_url":
		return "Each image must be a valid URL"
	case "min":
		if e.Kind() == reflect.String {
			return label + " must be at least " + e.Param() + " characters"
		}
		return label + " must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return label + " must be at most " + e.Param() + " characters"
		}
		return label + " must be at most " + e.Param()
	case "gt":
		if e.Param() == "0" {
			return label + " must be positive"
		}
		return label + " must be greater than " + e.Param()
	case "gte":
		if e.Param() == "0" {
			return label + " must be zero or greater"
		}
		return label + " must be at least " + e.Param()
	case "lt", "lte":
		return label + " is too large"
	default:
		return label + " is invalid"
	}
}
