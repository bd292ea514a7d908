package basket

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"basket-pricer/core/catalog"
	"basket-pricer/core/delivery"
	"basket-pricer/core/money"
	"basket-pricer/core/offer"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

func widgetPricer() *Pricer {
	c := catalog.MustNew(
		catalog.Product{Code: "R01", Name: "Red Widget", Price: money.MustParse("32.95")},
		catalog.Product{Code: "G01", Name: "Green Widget", Price: money.MustParse("24.95")},
		catalog.Product{Code: "B01", Name: "Blue Widget", Price: money.MustParse("7.95")},
	)
	d := delivery.MustNewSchedule(
		delivery.Below(money.MustParse("50"), money.MustParse("4.95")),
		delivery.Below(money.MustParse("90"), money.MustParse("2.95")),
		delivery.Above(money.MustParse("0")),
	)
	o := offer.MustNewSet(offer.BuyOneGetHalfOff("R01"))
	return NewPricer(c, d, o)
}

func repeat(code string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = code
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestTotalReferenceScenarios(t *testing.T) {
	tests := []struct {
		items    []string
		expected string
	}{
		{items: []string{"B01", "G01"}, expected: "37.85"},
		{items: []string{"R01", "R01"}, expected: "54.37"},
		{items: []string{"R01", "G01"}, expected: "60.85"},
		{items: []string{"B01", "B01", "R01", "R01", "R01"}, expected: "98.27"},
		{items: []string{"R01", "R01", "G01", "B01", "B01"}, expected: "90.27"},
		{items: []string{"R01"}, expected: "37.90"},
		{items: []string{"G01"}, expected: "29.90"},
		{items: []string{"B01"}, expected: "12.90"},
		{items: repeat("R01", 3), expected: "85.32"},
		{items: repeat("B01", 6), expected: "52.65"},
		{items: nil, expected: "0.00"},
		{items: repeat("R01", 4), expected: "98.85"},
		{items: concat(repeat("R01", 4), []string{"G01", "B01"}), expected: "131.75"},
		{items: concat(repeat("R01", 10), repeat("G01", 5), repeat("B01", 15)), expected: "491.12"},
	}

	p := widgetPricer()
	for _, tt := range tests {
		name := strings.Join(tt.items, ",")
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			b := p.NewBasket()
			require.NoError(t, b.AddAll(tt.items...))
			assert.Equal(t, tt.expected, b.Total().StringFixed(2))
		})
	}
}

func TestBreakdownStages(t *testing.T) {
	b := widgetPricer().NewBasket()
	require.NoError(t, b.AddAll("R01", "R01"))

	br := b.Breakdown()
	assert.Equal(t, b.ID().String(), br.BasketID)
	assert.Equal(t, money.USD, br.Currency)
	assert.Equal(t, 2, br.Units)
	assert.Equal(t, "65.90", br.Subtotal.StringFixed(2))
	assert.Equal(t, "16.48", br.Discount.StringFixed(2))
	assert.Equal(t, "49.42", br.Discounted.StringFixed(2))
	assert.Equal(t, "4.95", br.Delivery.StringFixed(2))
	assert.Equal(t, "54.37", br.Total.StringFixed(2))

	require.NotNil(t, br.DeliveryTier)
	assert.Equal(t, "50", br.DeliveryTier.Threshold.String())

	require.Len(t, br.Offers, 1)
	assert.Equal(t, "R01", br.Offers[0].ProductCode)
	assert.Equal(t, 2, br.Offers[0].Units)

	require.Len(t, br.Lines, 1)
	assert.Equal(t, Line{
		Code:      "R01",
		Name:      "Red Widget",
		Quantity:  2,
		UnitPrice: br.Lines[0].UnitPrice,
		Amount:    br.Lines[0].Amount,
	}, br.Lines[0])
	assert.Equal(t, "65.90", br.Lines[0].Amount.StringFixed(2))
}

func TestEmptyBasket(t *testing.T) {
	b := widgetPricer().NewBasket()

	br := b.Breakdown()
	assert.True(t, br.Subtotal.IsZero())
	assert.True(t, br.Delivery.IsZero())
	assert.Nil(t, br.DeliveryTier)
	assert.Empty(t, br.Lines)
	assert.Equal(t, "0.00", b.Total().StringFixed(2))
}

func TestFreeDeliveryAboveTopThreshold(t *testing.T) {
	b := widgetPricer().NewBasket()
	require.NoError(t, b.AddAll(repeat("R01", 4)...))

	br := b.Breakdown()
	assert.Equal(t, "98.85", br.Discounted.StringFixed(2))
	assert.True(t, br.Delivery.IsZero())
	require.NotNil(t, br.DeliveryTier)
	assert.True(t, br.DeliveryTier.Unbounded)
}

func TestThresholdBoundaryIsExclusive(t *testing.T) {
	c := catalog.MustNew(catalog.Product{Code: "F01", Name: "Fifty", Price: money.MustParse("50.00")})
	d := delivery.MustNewSchedule(
		delivery.Below(money.MustParse("50"), money.MustParse("4.95")),
		delivery.Below(money.MustParse("90"), money.MustParse("2.95")),
		delivery.Above(money.MustParse("0")),
	)
	b := New(c, d, nil)
	require.NoError(t, b.Add("F01"))

	assert.Equal(t, "2.95", b.Breakdown().Delivery.StringFixed(2))
	assert.Equal(t, "52.95", b.Total().StringFixed(2))
}

func TestAddUnknownProduct(t *testing.T) {
	b := widgetPricer().NewBasket()
	require.NoError(t, b.Add("B01"))
	before := b.Total()

	err := b.Add("X99")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeUnknownProduct))
	assert.Contains(t, err.Error(), "X99")

	assert.Equal(t, []string{"B01"}, b.Items())
	assert.True(t, before.Equal(b.Total()))
}

func TestUnknownProductIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logging.Replace(zap.New(core)))

	b := widgetPricer().NewBasket()
	require.Error(t, b.Add("X99"))

	entries := logs.FilterMessage("rejected unknown product").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "X99", entries[0].ContextMap()["code"])
	assert.Equal(t, b.ID().String(), entries[0].ContextMap()["basket"])
}

func TestAddAllStopsAtUnknownProduct(t *testing.T) {
	b := widgetPricer().NewBasket()

	err := b.AddAll("R01", "X99", "G01")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeUnknownProduct))
	assert.Equal(t, []string{"R01"}, b.Items())
}

func TestTotalIsIdempotent(t *testing.T) {
	b := widgetPricer().NewBasket()
	require.NoError(t, b.AddAll("R01", "R01", "G01", "B01", "B01"))

	first := b.Total()
	second := b.Total()
	assert.True(t, first.Equal(second))
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, map[string]int{"R01": 2, "G01": 1, "B01": 2}, b.Counts())
}

func TestSubtotalRoundsEachStep(t *testing.T) {
	c := catalog.MustNew(catalog.Product{Code: "H01", Name: "Half cent", Price: money.MustParse("0.005")})
	b := New(c, nil, nil)
	require.NoError(t, b.AddAll("H01", "H01"))

	// 0.005 -> 0.01, then 0.015 -> 0.02; a single final rounding would give 0.01
	assert.Equal(t, "0.02", b.Subtotal().StringFixed(2))
}

func TestFullyDiscountedBasketShipsFree(t *testing.T) {
	c := catalog.MustNew(catalog.Product{Code: "P01", Name: "Promo", Price: money.MustParse("10")})
	o := offer.MustNewSet(offer.NthUnitPercent("P01", 1, money.MustParse("0")))
	d := delivery.MustNewSchedule(delivery.Below(money.MustParse("50"), money.MustParse("4.95")))
	b := New(c, d, o)
	require.NoError(t, b.AddAll("P01", "P01"))

	br := b.Breakdown()
	assert.Equal(t, "20.00", br.Discount.StringFixed(2))
	assert.True(t, br.Discounted.IsZero())
	assert.True(t, br.Delivery.IsZero())
	assert.Equal(t, "0.00", br.Total.StringFixed(2))
}

func TestQuote(t *testing.T) {
	p := widgetPricer()

	br, err := p.Quote("R01", "G01")
	require.NoError(t, err)
	assert.Equal(t, "60.85", br.Total.StringFixed(2))

	_, err = p.Quote("R01", "X99")
	assert.True(t, errors.IsType(err, errors.TypeUnknownProduct))
}

func TestBasketsAreIndependent(t *testing.T) {
	p := widgetPricer()
	a := p.NewBasket()
	b := p.NewBasket()
	require.NoError(t, a.Add("R01"))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "37.90", a.Total().StringFixed(2))
}

func TestSharedPricerConcurrentBaskets(t *testing.T) {
	p := widgetPricer()

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := p.NewBasket()
			if err := b.AddAll("B01", "B01", "R01", "R01", "R01"); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = b.Total().StringFixed(2)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "98.27", r)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	b := widgetPricer().NewBasket()
	require.NoError(t, b.Add("G01"))

	items := b.Items()
	items[0] = "R01"
	assert.Equal(t, []string{"G01"}, b.Items())
}
