// Package catalog - Catalog validation
// Ensures every product satisfies the catalog invariants.
package catalog

import (
	"strings"

	"basket-pricer/internal/errors"
)

// ValidationRule is a product validation rule
type ValidationRule func(Product) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateCode,
		validatePrice,
	}
}

// validateCode rejects empty or padded product codes
func validateCode(p Product) error {
	if p.Code == "" {
		return errors.Pricing("product code must not be empty")
	}
	if strings.TrimSpace(p.Code) != p.Code {
		return errors.Newf(errors.TypePricing, "product code %q has surrounding whitespace", p.Code)
	}
	return nil
}

// validatePrice rejects negative unit prices
func validatePrice(p Product) error {
	if p.Price.IsNegative() {
		return errors.Newf(errors.TypePricing, "product %s has negative price %s", p.Code, p.Price.String()).
			WithContext("code", p.Code)
	}
	return nil
}
