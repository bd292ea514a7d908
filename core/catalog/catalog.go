// Package catalog - Product catalog
// Maps product codes to unit prices. A catalog is immutable once built
// and may be shared by any number of baskets.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"basket-pricer/internal/errors"
)

// Product is a catalog entry
type Product struct {
	// Code uniquely identifies the product (e.g. "R01")
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// Price is the unit price
	Price decimal.Decimal `json:"price"`
}

// Catalog is the read-only product lookup
type Catalog struct {
	entries map[string]Product
	order   []string
}

// New builds a catalog from products, rejecting entries that fail the
// default validation rules or repeat a code
func New(products ...Product) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[string]Product, len(products)),
		order:   make([]string, 0, len(products)),
	}

	rules := DefaultValidationRules()
	for _, p := range products {
		for _, rule := range rules {
			if err := rule(p); err != nil {
				return nil, err
			}
		}
		if _, exists := c.entries[p.Code]; exists {
			return nil, errors.Newf(errors.TypePricing, "duplicate product code %s", p.Code).
				WithContext("code", p.Code)
		}
		c.entries[p.Code] = p
		c.order = append(c.order, p.Code)
	}

	return c, nil
}

// MustNew is New for fixed, known-good product lists
func MustNew(products ...Product) *Catalog {
	c, err := New(products...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the product for a code
func (c *Catalog) Get(code string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	p, ok := c.entries[code]
	return p, ok
}

// Has reports whether the code is listed
func (c *Catalog) Has(code string) bool {
	_, ok := c.Get(code)
	return ok
}

// Price returns the unit price for a code, zero when unlisted
func (c *Catalog) Price(code string) decimal.Decimal {
	p, _ := c.Get(code)
	return p.Price
}

// Len returns the number of products
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Products returns the products in the order they were registered
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.entries[code])
	}
	return out
}

// Codes returns all product codes sorted lexically
func (c *Catalog) Codes() []string {
	if c == nil {
		return nil
	}
	codes := make([]string, len(c.order))
	copy(codes, c.order)
	sort.Strings(codes)
	return codes
}
