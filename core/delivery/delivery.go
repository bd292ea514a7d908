// Package delivery - Tiered delivery charges
// A schedule is an ascending list of tiers. A tier applies to order totals
// strictly below its threshold; the unbounded tier applies to everything.
package delivery

import (
	"sort"

	"github.com/shopspring/decimal"

	"basket-pricer/core/money"
	"basket-pricer/internal/errors"
)

// Tier maps "order total below Threshold" to a flat charge
type Tier struct {
	// Threshold is the exclusive upper bound; ignored when Unbounded
	Threshold decimal.Decimal `json:"threshold"`

	// Unbounded marks the top tier, matching any total
	Unbounded bool `json:"unbounded,omitempty"`

	// Charge is the delivery fee for totals in this tier
	Charge decimal.Decimal `json:"charge"`
}

// Below returns a tier for totals under threshold
func Below(threshold, charge decimal.Decimal) Tier {
	return Tier{Threshold: threshold, Charge: charge}
}

// Above returns the unbounded top tier
func Above(charge decimal.Decimal) Tier {
	return Tier{Unbounded: true, Charge: charge}
}

// Matches reports whether an order total falls in this tier
func (t Tier) Matches(total decimal.Decimal) bool {
	return t.Unbounded || total.LessThan(t.Threshold)
}

// Schedule is a read-only, ascending tier list
type Schedule struct {
	tiers []Tier
}

// NewSchedule validates tiers and orders them ascending, unbounded last
func NewSchedule(tiers ...Tier) (*Schedule, error) {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)

	unbounded := 0
	for _, t := range sorted {
		if t.Charge.IsNegative() {
			return nil, errors.Newf(errors.TypePricing, "delivery charge %s is negative", t.Charge.String())
		}
		if t.Unbounded {
			unbounded++
			continue
		}
		if !t.Threshold.IsPositive() {
			return nil, errors.Newf(errors.TypePricing, "delivery threshold %s must be positive", t.Threshold.String())
		}
	}
	if unbounded > 1 {
		return nil, errors.Pricing("delivery schedule has more than one unbounded tier")
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Unbounded || b.Unbounded {
			return !a.Unbounded && b.Unbounded
		}
		return a.Threshold.LessThan(b.Threshold)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Unbounded {
			break
		}
		if sorted[i].Threshold.Equal(sorted[i-1].Threshold) {
			return nil, errors.Newf(errors.TypePricing, "duplicate delivery threshold %s", sorted[i].Threshold.String())
		}
	}

	return &Schedule{tiers: sorted}, nil
}

// MustNewSchedule is NewSchedule for fixed, known-good tiers
func MustNewSchedule(tiers ...Tier) *Schedule {
	s, err := NewSchedule(tiers...)
	if err != nil {
		panic(err)
	}
	return s
}

// Tiers returns the tiers in evaluation order
func (s *Schedule) Tiers() []Tier {
	if s == nil {
		return nil
	}
	out := make([]Tier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

// TierFor returns the first tier matching a positive total
func (s *Schedule) TierFor(total decimal.Decimal) (Tier, bool) {
	if s == nil || !total.IsPositive() {
		return Tier{}, false
	}
	for _, t := range s.tiers {
		if t.Matches(total) {
			return t, true
		}
	}
	return Tier{}, false
}

// Charge returns the delivery fee for a post-discount total. Non-positive
// totals and totals above every threshold ship free.
func (s *Schedule) Charge(total decimal.Decimal) decimal.Decimal {
	t, ok := s.TierFor(total)
	if !ok {
		return decimal.Zero
	}
	return money.Round(t.Charge)
}
