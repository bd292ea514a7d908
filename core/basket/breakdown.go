package basket

import (
	"github.com/shopspring/decimal"

	"basket-pricer/core/delivery"
	"basket-pricer/core/money"
	"basket-pricer/core/offer"
)

// Line is the per-product view of a basket
type Line struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Breakdown holds every stage of a basket price
type Breakdown struct {
	// BasketID identifies the priced basket
	BasketID string `json:"basket_id,omitempty"`

	// Currency of every amount
	Currency money.Currency `json:"currency"`

	// Units is the number of items
	Units int `json:"units"`

	// Lines groups items per product
	Lines []Line `json:"lines"`

	// Subtotal is the stepwise-rounded sum of unit prices
	Subtotal decimal.Decimal `json:"subtotal"`

	// Offers lists the offers that produced a discount
	Offers []offer.Applied `json:"offers,omitempty"`

	// Discount is the total offer discount
	Discount decimal.Decimal `json:"discount"`

	// Discounted is subtotal minus discount, never below zero
	Discounted decimal.Decimal `json:"discounted"`

	// DeliveryTier is the matched tier, nil when delivery is free by default
	DeliveryTier *delivery.Tier `json:"delivery_tier,omitempty"`

	// Delivery is the delivery charge
	Delivery decimal.Decimal `json:"delivery"`

	// Total is the payable amount
	Total decimal.Decimal `json:"total"`
}
