// Package pricing loads basket pricing definitions from files.
// Definitions are written in HCL native syntax (.hcl) or HCL JSON syntax (.json):
//
//	currency = "USD"
//
//	product "R01" {
//	  name  = "Red Widget"
//	  price = 32.95
//	}
//
//	delivery {
//	  below  = 50
//	  charge = 4.95
//	}
//
//	delivery {
//	  charge = 0 # no "below": the unbounded top tier
//	}
//
//	offer "R01" {
//	  kind = "buy_one_get_half_off"
//	}
package pricing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"basket-pricer/core/basket"
	"basket-pricer/core/catalog"
	"basket-pricer/core/delivery"
	"basket-pricer/core/money"
	"basket-pricer/core/offer"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

type fileSchema struct {
	Currency *string         `hcl:"currency,optional"`
	Products []productBlock  `hcl:"product,block"`
	Delivery []deliveryBlock `hcl:"delivery,block"`
	Offers   []offerBlock    `hcl:"offer,block"`
}

type productBlock struct {
	Code  string         `hcl:"code,label"`
	Name  *string        `hcl:"name,optional"`
	Price hcl.Expression `hcl:"price,optional"`
}

type deliveryBlock struct {
	Below  hcl.Expression `hcl:"below,optional"`
	Charge hcl.Expression `hcl:"charge,optional"`
}

type offerBlock struct {
	Code    string         `hcl:"code,label"`
	Kind    string         `hcl:"kind"`
	Every   *int           `hcl:"every,optional"`
	Percent hcl.Expression `hcl:"percent,optional"`
}

// Definition is a decoded pricing file
type Definition struct {
	Source   string
	Currency money.Currency
	Products []catalog.Product
	Tiers    []delivery.Tier
	Offers   []offer.Offer
}

// LoadFile reads and decodes a pricing file
func LoadFile(path string) (*Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("pricing file", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read pricing file %s", path)
	}
	return Parse(src, path)
}

// LoadPricer reads a pricing file and builds a pricer from it
func LoadPricer(path string) (*basket.Pricer, error) {
	def, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return def.Pricer()
}

// Parse decodes pricing source. The filename extension selects the syntax.
func Parse(src []byte, filename string) (*Definition, error) {
	parser := hclparse.NewParser()

	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		file, diags = parser.ParseHCL(src, filename)
	case ".json":
		file, diags = parser.ParseJSON(src, filename)
	default:
		return nil, errors.NotSupported("pricing file format " + filepath.Ext(filename)).
			WithContext("file", filename)
	}
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	def, diags := decode(&schema)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}
	def.Source = filename

	logging.Info("loaded pricing file",
		zap.String("file", filename),
		zap.Int("products", len(def.Products)),
		zap.Int("delivery_tiers", len(def.Tiers)),
		zap.Int("offers", len(def.Offers)))

	return def, nil
}

func decode(schema *fileSchema) (*Definition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	def := &Definition{Currency: money.USD}

	if schema.Currency != nil {
		def.Currency = money.ParseCurrency(*schema.Currency)
	}

	for _, p := range schema.Products {
		price, ok, d := amount(p.Price, "price", true)
		diags = append(diags, d...)
		if !ok {
			continue
		}
		product := catalog.Product{Code: p.Code, Price: price}
		if p.Name != nil {
			product.Name = *p.Name
		}
		def.Products = append(def.Products, product)
	}

	for _, b := range schema.Delivery {
		charge, ok, d := amount(b.Charge, "charge", true)
		diags = append(diags, d...)
		if !ok {
			continue
		}
		below, bounded, d := amount(b.Below, "below", false)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		if bounded {
			def.Tiers = append(def.Tiers, delivery.Below(below, charge))
		} else {
			def.Tiers = append(def.Tiers, delivery.Above(charge))
		}
	}

	for _, o := range schema.Offers {
		kind := offer.Kind(o.Kind)
		if !kind.Known() {
			logging.Warn("offer kind not recognised, it will be ignored",
				zap.String("code", o.Code),
				zap.String("kind", o.Kind))
		}

		entry := offer.Offer{ProductCode: o.Code, Kind: kind}
		if o.Every != nil {
			entry.Every = *o.Every
		}
		percent, ok, d := amount(o.Percent, "percent", false)
		diags = append(diags, d...)
		if ok {
			entry.Percent = percent
		}
		def.Offers = append(def.Offers, entry)
	}

	return def, diags
}

// amount evaluates an expression holding a number or a numeric string
func amount(expr hcl.Expression, name string, required bool) (decimal.Decimal, bool, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Zero, false, diags
	}

	if val.IsNull() {
		if required {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing required argument",
				Detail:   fmt.Sprintf("The argument %q is required.", name),
				Subject:  expr.Range().Ptr(),
			})
		}
		return decimal.Zero, false, diags
	}

	var text string
	switch val.Type() {
	case cty.Number:
		text = val.AsBigFloat().Text('f', -1)
	case cty.String:
		text = val.AsString()
	default:
		return decimal.Zero, false, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid amount",
			Detail:   fmt.Sprintf("The argument %q must be a number, got %s.", name, val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}

	d, err := money.Parse(text)
	if err != nil {
		return decimal.Zero, false, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid amount",
			Detail:   fmt.Sprintf("The argument %q is not a decimal amount: %q.", name, text),
			Subject:  expr.Range().Ptr(),
		})
	}
	return d, true, diags
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	e := errors.Parsing("invalid pricing file "+filename, diags).WithContext("file", filename)
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError && diag.Subject != nil {
			e.WithContext("line", diag.Subject.Start.Line)
			break
		}
	}
	return e
}

// Pricer validates the definition and builds a pricer
func (d *Definition) Pricer() (*basket.Pricer, error) {
	cat, err := catalog.New(d.Products...)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "invalid catalog in %s", d.Source)
	}
	sched, err := delivery.NewSchedule(d.Tiers...)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "invalid delivery tiers in %s", d.Source)
	}
	set, err := offer.NewSet(d.Offers...)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "invalid offers in %s", d.Source)
	}

	for _, o := range set.Offers() {
		if !cat.Has(o.ProductCode) {
			logging.Warn("offer references a product missing from the catalog",
				zap.String("file", d.Source),
				zap.String("code", o.ProductCode))
		}
	}

	return basket.NewPricer(cat, sched, set, basket.WithCurrency(d.Currency)), nil
}
