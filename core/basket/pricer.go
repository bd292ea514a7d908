// Package basket - Basket pricing
// A Pricer binds a catalog, an offer set and a delivery schedule; baskets
// created from it run the pipeline subtotal -> offers -> delivery -> total.
package basket

import (
	"github.com/shopspring/decimal"

	"basket-pricer/core/catalog"
	"basket-pricer/core/delivery"
	"basket-pricer/core/money"
	"basket-pricer/core/offer"
)

// Pricer holds the shared, read-only pricing configuration.
// It is safe for concurrent use.
type Pricer struct {
	catalog  *catalog.Catalog
	delivery *delivery.Schedule
	offers   *offer.Set
	currency money.Currency
}

// Option configures a Pricer
type Option func(*Pricer)

// WithCurrency sets the currency reported in breakdowns
func WithCurrency(c money.Currency) Option {
	return func(p *Pricer) {
		p.currency = c
	}
}

// NewPricer creates a pricer. Nil schedules and offer sets price as empty.
func NewPricer(c *catalog.Catalog, d *delivery.Schedule, o *offer.Set, opts ...Option) *Pricer {
	p := &Pricer{
		catalog:  c,
		delivery: d,
		offers:   o,
		currency: money.USD,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog returns the product catalog
func (p *Pricer) Catalog() *catalog.Catalog { return p.catalog }

// Delivery returns the delivery schedule
func (p *Pricer) Delivery() *delivery.Schedule { return p.delivery }

// Offers returns the offer set
func (p *Pricer) Offers() *offer.Set { return p.offers }

// Currency returns the pricing currency
func (p *Pricer) Currency() money.Currency { return p.currency }

// NewBasket creates an empty basket bound to this pricer
func (p *Pricer) NewBasket() *Basket {
	return newBasket(p)
}

// Quote prices a list of codes in a fresh basket
func (p *Pricer) Quote(codes ...string) (Breakdown, error) {
	b := p.NewBasket()
	if err := b.AddAll(codes...); err != nil {
		return Breakdown{}, err
	}
	return b.Breakdown(), nil
}

// subtotal sums unit prices in insertion order, rounding after each addition
func (p *Pricer) subtotal(items []string) decimal.Decimal {
	total := decimal.Zero
	for _, code := range items {
		total = money.Round(total.Add(p.catalog.Price(code)))
	}
	return total
}

// price runs the full pipeline over a sequence of catalog codes
func (p *Pricer) price(items []string) Breakdown {
	counts := countItems(items)

	subtotal := p.subtotal(items)
	applied, discount := p.offers.Apply(counts, p.catalog)

	discounted := money.Round(subtotal.Sub(discount))
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	tier, hasTier := p.delivery.TierFor(discounted)
	charge := p.delivery.Charge(discounted)

	b := Breakdown{
		Currency:   p.currency,
		Units:      len(items),
		Lines:      p.lines(items, counts),
		Subtotal:   subtotal,
		Offers:     applied,
		Discount:   discount,
		Discounted: discounted,
		Delivery:   charge,
		Total:      money.Round(discounted.Add(charge)),
	}
	if hasTier {
		b.DeliveryTier = &tier
	}
	return b
}

// lines groups items per product in first-seen order
func (p *Pricer) lines(items []string, counts map[string]int) []Line {
	seen := make(map[string]bool, len(counts))
	lines := make([]Line, 0, len(counts))
	for _, code := range items {
		if seen[code] {
			continue
		}
		seen[code] = true

		product, _ := p.catalog.Get(code)
		qty := counts[code]
		lines = append(lines, Line{
			Code:      code,
			Name:      product.Name,
			Quantity:  qty,
			UnitPrice: product.Price,
			Amount:    money.Round(product.Price.Mul(decimal.NewFromInt(int64(qty)))),
		})
	}
	return lines
}

func countItems(items []string) map[string]int {
	counts := make(map[string]int)
	for _, code := range items {
		counts[code]++
	}
	return counts
}
