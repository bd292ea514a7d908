// Package output provides output formatting for priced baskets.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"basket-pricer/core/basket"
	"basket-pricer/core/money"
	"basket-pricer/core/ui"
	"basket-pricer/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable summary
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Options tune rendering
type Options struct {
	// ShowDetails adds per-product lines and offer discounts
	ShowDetails bool

	// NoColor disables ANSI colors
	NoColor bool
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given breakdown
	Render(w io.Writer, b basket.Breakdown) error
}

// New returns the formatter for a format name
func New(format string, opts Options) (Formatter, error) {
	switch Format(format) {
	case FormatText, "":
		return &TextFormatter{opts: opts}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, errors.NotSupported("output format " + format)
	}
}

// TextFormatter renders a boxed summary and, optionally, detail tables
type TextFormatter struct {
	opts Options
}

// Format returns FormatText
func (f *TextFormatter) Format() Format { return FormatText }

// Render writes the breakdown
func (f *TextFormatter) Render(w io.Writer, b basket.Breakdown) error {
	uw := ui.NewWriter(w, f.opts.NoColor)
	amount := func(d decimal.Decimal) string {
		return money.Format(d, b.Currency)
	}

	if f.opts.ShowDetails && len(b.Lines) > 0 {
		uw.Header("Items")
		table := uw.NewTable("Code", "Product", "Qty", "Unit", "Amount").AlignRight(2, 3, 4)
		for _, l := range b.Lines {
			table.AddRow(l.Code, l.Name, strconv.Itoa(l.Quantity), amount(l.UnitPrice), amount(l.Amount))
		}
		table.Render()

		if len(b.Offers) > 0 {
			uw.Println("")
			uw.SubHeader("Offers")
			for _, o := range b.Offers {
				uw.Println("  %s %s x%d: -%s", o.ProductCode, o.Kind, o.Units, amount(o.Amount))
			}
		}

		if b.DeliveryTier != nil {
			uw.Println("")
			uw.SubHeader("Delivery")
			if b.DeliveryTier.Unbounded {
				uw.Println("  top tier: %s", amount(b.Delivery))
			} else {
				uw.Println("  under %s: %s", amount(b.DeliveryTier.Threshold), amount(b.Delivery))
			}
		}
	}

	s := uw.NewTotalSummary()
	s.Subtotal = amount(b.Subtotal)
	s.Discount = amount(b.Discount)
	s.Delivery = amount(b.Delivery)
	s.Total = amount(b.Total)
	s.Units = b.Units
	s.Render()
	return nil
}

// JSONFormatter renders the breakdown as indented JSON with fixed two-place amounts
type JSONFormatter struct{}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

type jsonLine struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Amount    string `json:"amount"`
}

type jsonOffer struct {
	ProductCode string `json:"product_code"`
	Kind        string `json:"kind"`
	Units       int    `json:"units"`
	Amount      string `json:"amount"`
}

type jsonBreakdown struct {
	BasketID          string      `json:"basket_id,omitempty"`
	Currency          string      `json:"currency"`
	Units             int         `json:"units"`
	Lines             []jsonLine  `json:"lines"`
	Subtotal          string      `json:"subtotal"`
	Offers            []jsonOffer `json:"offers"`
	Discount          string      `json:"discount"`
	Discounted        string      `json:"discounted"`
	DeliveryThreshold *string     `json:"delivery_threshold"`
	Delivery          string      `json:"delivery"`
	Total             string      `json:"total"`
}

// Render writes the breakdown
func (f *JSONFormatter) Render(w io.Writer, b basket.Breakdown) error {
	out := jsonBreakdown{
		BasketID:   b.BasketID,
		Currency:   b.Currency.String(),
		Units:      b.Units,
		Lines:      make([]jsonLine, 0, len(b.Lines)),
		Subtotal:   b.Subtotal.StringFixed(money.Places),
		Offers:     make([]jsonOffer, 0, len(b.Offers)),
		Discount:   b.Discount.StringFixed(money.Places),
		Discounted: b.Discounted.StringFixed(money.Places),
		Delivery:   b.Delivery.StringFixed(money.Places),
		Total:      b.Total.StringFixed(money.Places),
	}
	for _, l := range b.Lines {
		out.Lines = append(out.Lines, jsonLine{
			Code:      l.Code,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(money.Places),
			Amount:    l.Amount.StringFixed(money.Places),
		})
	}
	for _, o := range b.Offers {
		out.Offers = append(out.Offers, jsonOffer{
			ProductCode: o.ProductCode,
			Kind:        o.Kind.String(),
			Units:       o.Units,
			Amount:      o.Amount.StringFixed(money.Places),
		})
	}
	if b.DeliveryTier != nil && !b.DeliveryTier.Unbounded {
		threshold := b.DeliveryTier.Threshold.StringFixed(money.Places)
		out.DeliveryThreshold = &threshold
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}
	return nil
}
