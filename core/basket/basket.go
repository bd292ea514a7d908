package basket

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"basket-pricer/core/catalog"
	"basket-pricer/core/delivery"
	"basket-pricer/core/offer"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

// Basket is an ordered list of product codes. It is not safe for
// concurrent mutation; callers sharing a basket must serialize Add.
type Basket struct {
	id     uuid.UUID
	pricer *Pricer
	items  []string
}

// New creates an empty basket over its own pricer
func New(c *catalog.Catalog, d *delivery.Schedule, o *offer.Set) *Basket {
	return NewPricer(c, d, o).NewBasket()
}

func newBasket(p *Pricer) *Basket {
	return &Basket{
		id:     uuid.New(),
		pricer: p,
	}
}

// ID returns the basket identifier
func (b *Basket) ID() uuid.UUID {
	return b.id
}

// Add appends a product code. Codes absent from the catalog are rejected
// with an UNKNOWN_PRODUCT error and the basket is left unchanged.
func (b *Basket) Add(code string) error {
	if !b.pricer.catalog.Has(code) {
		logging.Debug("rejected unknown product",
			zap.Stringer("basket", b.id),
			zap.String("code", code))
		return errors.UnknownProduct(code)
	}
	b.items = append(b.items, code)
	return nil
}

// AddAll adds codes in order, stopping at the first unknown code. Codes
// before it stay in the basket.
func (b *Basket) AddAll(codes ...string) error {
	for _, code := range codes {
		if err := b.Add(code); err != nil {
			return err
		}
	}
	return nil
}

// Items returns a copy of the codes in insertion order
func (b *Basket) Items() []string {
	out := make([]string, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of units in the basket
func (b *Basket) Len() int {
	return len(b.items)
}

// Counts returns the number of units per product code
func (b *Basket) Counts() map[string]int {
	return countItems(b.items)
}

// Subtotal returns the undiscounted total
func (b *Basket) Subtotal() decimal.Decimal {
	return b.pricer.subtotal(b.items)
}

// Discount returns the total offer discount
func (b *Basket) Discount() decimal.Decimal {
	return b.pricer.offers.Discount(countItems(b.items), b.pricer.catalog)
}

// Breakdown prices the basket and returns every intermediate amount
func (b *Basket) Breakdown() Breakdown {
	br := b.pricer.price(b.items)
	br.BasketID = b.id.String()

	logging.Debug("basket priced",
		zap.Stringer("basket", b.id),
		zap.Int("units", br.Units),
		logging.Amount("subtotal", br.Subtotal),
		logging.Amount("discount", br.Discount),
		logging.Amount("delivery", br.Delivery),
		logging.Amount("total", br.Total))

	return br
}

// Total returns the payable amount: discounted subtotal plus delivery,
// rounded to two places. Calling it does not change the basket.
func (b *Basket) Total() decimal.Decimal {
	return b.Breakdown().Total
}
