package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basket-pricer/core/basket"
	"basket-pricer/core/catalog"
	"basket-pricer/core/delivery"
	"basket-pricer/core/money"
	"basket-pricer/core/offer"
	"basket-pricer/internal/errors"
)

func quote(t *testing.T, codes ...string) basket.Breakdown {
	t.Helper()
	p := basket.NewPricer(
		catalog.MustNew(
			catalog.Product{Code: "R01", Name: "Red Widget", Price: money.MustParse("32.95")},
			catalog.Product{Code: "G01", Name: "Green Widget", Price: money.MustParse("24.95")},
			catalog.Product{Code: "B01", Name: "Blue Widget", Price: money.MustParse("7.95")},
		),
		delivery.MustNewSchedule(
			delivery.Below(money.MustParse("50"), money.MustParse("4.95")),
			delivery.Below(money.MustParse("90"), money.MustParse("2.95")),
			delivery.Above(money.MustParse("0")),
		),
		offer.MustNewSet(offer.BuyOneGetHalfOff("R01")),
	)
	b, err := p.Quote(codes...)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := New(tt.format, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Format())
		})
	}

	_, err := New("html", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotSupported))
}

func TestTextSummary(t *testing.T) {
	var buf bytes.Buffer
	f, err := New("text", Options{NoColor: true})
	require.NoError(t, err)
	require.NoError(t, f.Render(&buf, quote(t, "R01", "R01")))

	out := buf.String()
	assert.Contains(t, out, "Basket Total")
	assert.Contains(t, out, "$65.90")
	assert.Contains(t, out, "-$16.48")
	assert.Contains(t, out, "$4.95")
	assert.Contains(t, out, "$54.37")
	assert.Contains(t, out, "Items: 2")
	assert.NotContains(t, out, "Red Widget")
	assert.NotContains(t, out, "\033[")
}

func TestTextDetails(t *testing.T) {
	var buf bytes.Buffer
	f, err := New("text", Options{ShowDetails: true, NoColor: true})
	require.NoError(t, err)
	require.NoError(t, f.Render(&buf, quote(t, "R01", "R01", "G01")))

	out := buf.String()
	assert.Contains(t, out, "Red Widget")
	assert.Contains(t, out, "Green Widget")
	assert.Contains(t, out, "R01 buy_one_get_half_off x2: -$16.48")
	assert.Contains(t, out, "under $90.00: $2.95")
}

func TestTextDetailsTopTier(t *testing.T) {
	var buf bytes.Buffer
	f, err := New("text", Options{ShowDetails: true, NoColor: true})
	require.NoError(t, err)
	require.NoError(t, f.Render(&buf, quote(t, "R01", "R01", "R01", "R01")))

	assert.Contains(t, buf.String(), "top tier: $0.00")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	f, err := New("json", Options{})
	require.NoError(t, err)
	require.NoError(t, f.Render(&buf, quote(t, "B01", "G01")))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "USD", got["currency"])
	assert.Equal(t, float64(2), got["units"])
	assert.Equal(t, "32.90", got["subtotal"])
	assert.Equal(t, "0.00", got["discount"])
	assert.Equal(t, "32.90", got["discounted"])
	assert.Equal(t, "50.00", got["delivery_threshold"])
	assert.Equal(t, "4.95", got["delivery"])
	assert.Equal(t, "37.85", got["total"])
	assert.Empty(t, got["offers"])
	assert.Len(t, got["lines"], 2)
}

func TestJSONEmptyBasket(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Render(&buf, quote(t)))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "0.00", got["total"])
	assert.Nil(t, got["delivery_threshold"])
	assert.Equal(t, []interface{}{}, got["lines"])
}
