// Package offer - Quantity-based promotional offers
// Offers are a closed set of tagged variants keyed by product code.
// Each offer prices only its own product; offers never interact.
package offer

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"basket-pricer/core/money"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

// Kind identifies an offer variant
type Kind string

const (
	// KindBuyOneGetHalfOff charges every second unit at half price
	KindBuyOneGetHalfOff Kind = "buy_one_get_half_off"

	// KindNthUnitPercent charges every Nth unit at a percentage of its price
	KindNthUnitPercent Kind = "nth_unit_percent"
)

// Known reports whether the kind is priced by this package
func (k Kind) Known() bool {
	switch k {
	case KindBuyOneGetHalfOff, KindNthUnitPercent:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

var hundred = decimal.NewFromInt(100)

// Offer is a discount policy for one product
type Offer struct {
	// ProductCode is the product the offer applies to
	ProductCode string `json:"product_code"`

	// Kind selects the policy
	Kind Kind `json:"kind"`

	// Every is the group size for KindNthUnitPercent
	Every int `json:"every,omitempty"`

	// Percent is the share of the unit price charged for the Nth unit
	Percent decimal.Decimal `json:"percent,omitempty"`
}

// BuyOneGetHalfOff returns the baseline offer for a product
func BuyOneGetHalfOff(code string) Offer {
	return Offer{ProductCode: code, Kind: KindBuyOneGetHalfOff}
}

// NthUnitPercent returns an offer charging every Nth unit at percent% of its price
func NthUnitPercent(code string, every int, percent decimal.Decimal) Offer {
	return Offer{ProductCode: code, Kind: KindNthUnitPercent, Every: every, Percent: percent}
}

// terms resolves the group size and charged percentage of a known kind
func (o Offer) terms() (int, decimal.Decimal, bool) {
	switch o.Kind {
	case KindBuyOneGetHalfOff:
		return 2, decimal.NewFromInt(50), true
	case KindNthUnitPercent:
		return o.Every, o.Percent, true
	default:
		return 0, decimal.Zero, false
	}
}

// Validate checks the parameters of known kinds. Unknown kinds pass; they
// are ignored when pricing.
func (o Offer) Validate() error {
	if o.ProductCode == "" {
		return errors.Pricing("offer product code must not be empty")
	}
	if o.Kind != KindNthUnitPercent {
		return nil
	}
	if o.Every < 1 {
		return errors.Newf(errors.TypePricing, "offer on %s: every must be at least 1, got %d", o.ProductCode, o.Every)
	}
	if o.Percent.IsNegative() || o.Percent.GreaterThan(hundred) {
		return errors.Newf(errors.TypePricing, "offer on %s: percent must be within 0..100, got %s", o.ProductCode, o.Percent.String())
	}
	return nil
}

// Discount returns the discount for count units at unit price, rounded to
// currency precision. Unknown kinds yield zero.
func (o Offer) Discount(count int, price decimal.Decimal) decimal.Decimal {
	every, percent, ok := o.terms()
	if !ok || every < 1 || count < every {
		return decimal.Zero
	}

	groups := decimal.NewFromInt(int64(count / every))
	off := hundred.Sub(percent).Div(hundred)
	return money.Round(groups.Mul(price.Mul(off)))
}

// PriceLookup resolves unit prices by product code
type PriceLookup interface {
	Price(code string) decimal.Decimal
}

// Applied records the discount one offer contributed
type Applied struct {
	ProductCode string          `json:"product_code"`
	Kind        Kind            `json:"kind"`
	Units       int             `json:"units"`
	Amount      decimal.Decimal `json:"amount"`
}

// Set is an ordered, read-only collection of offers with at most one offer per product
type Set struct {
	offers []Offer
	byCode map[string]int
}

// NewSet builds an offer set
func NewSet(offers ...Offer) (*Set, error) {
	s := &Set{
		offers: make([]Offer, 0, len(offers)),
		byCode: make(map[string]int, len(offers)),
	}
	for _, o := range offers {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if _, exists := s.byCode[o.ProductCode]; exists {
			return nil, errors.Newf(errors.TypePricing, "more than one offer on product %s", o.ProductCode).
				WithContext("code", o.ProductCode)
		}
		s.byCode[o.ProductCode] = len(s.offers)
		s.offers = append(s.offers, o)
	}
	return s, nil
}

// MustNewSet is NewSet for fixed, known-good offer lists
func MustNewSet(offers ...Offer) *Set {
	s, err := NewSet(offers...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of offers
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.offers)
}

// Offers returns the offers in configuration order
func (s *Set) Offers() []Offer {
	if s == nil {
		return nil
	}
	out := make([]Offer, len(s.offers))
	copy(out, s.offers)
	return out
}

// For returns the offer on a product
func (s *Set) For(code string) (Offer, bool) {
	if s == nil {
		return Offer{}, false
	}
	i, ok := s.byCode[code]
	if !ok {
		return Offer{}, false
	}
	return s.offers[i], true
}

// Apply computes each offer's contribution from per-product unit counts.
// Only offers that produced a discount are returned; the total is rounded.
func (s *Set) Apply(counts map[string]int, prices PriceLookup) ([]Applied, decimal.Decimal) {
	total := decimal.Zero
	if s == nil {
		return nil, total
	}

	var applied []Applied
	for _, o := range s.offers {
		count := counts[o.ProductCode]
		if count == 0 {
			continue
		}
		if !o.Kind.Known() {
			logging.Debug("ignoring unrecognised offer kind",
				zap.String("code", o.ProductCode),
				zap.String("kind", o.Kind.String()))
			continue
		}

		amount := o.Discount(count, prices.Price(o.ProductCode))
		if amount.IsZero() {
			continue
		}
		applied = append(applied, Applied{
			ProductCode: o.ProductCode,
			Kind:        o.Kind,
			Units:       count,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	return applied, money.Round(total)
}

// Discount returns the rounded total discount
func (s *Set) Discount(counts map[string]int, prices PriceLookup) decimal.Decimal {
	_, total := s.Apply(counts, prices)
	return total
}
