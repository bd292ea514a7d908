package api

import (
	"basket-pricer/core/basket"
	"basket-pricer/core/money"
)

// QuoteRequest is the body of POST /quote
type QuoteRequest struct {
	// Items are product codes, one entry per unit
	Items []string `json:"items"`

	// SkipUnknown drops unknown codes instead of rejecting the request
	SkipUnknown bool `json:"skip_unknown,omitempty"`
}

// ErrorResponse is the canonical error shape
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// CatalogResponse is the body of GET /catalog
type CatalogResponse struct {
	Currency string         `json:"currency"`
	Products []ProductInfo  `json:"products"`
	Offers   []OfferInfo    `json:"offers"`
	Delivery []DeliveryInfo `json:"delivery"`
}

// ProductInfo describes one catalog entry
type ProductInfo struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// OfferInfo describes one configured offer
type OfferInfo struct {
	ProductCode string `json:"product_code"`
	Kind        string `json:"kind"`
}

// DeliveryInfo describes one delivery tier; Below is empty for the top tier
type DeliveryInfo struct {
	Below  string `json:"below,omitempty"`
	Charge string `json:"charge"`
}

func newCatalogResponse(p *basket.Pricer) CatalogResponse {
	resp := CatalogResponse{
		Currency: p.Currency().String(),
		Products: []ProductInfo{},
		Offers:   []OfferInfo{},
		Delivery: []DeliveryInfo{},
	}
	for _, prod := range p.Catalog().Products() {
		resp.Products = append(resp.Products, ProductInfo{
			Code:  prod.Code,
			Name:  prod.Name,
			Price: prod.Price.StringFixed(money.Places),
		})
	}
	for _, o := range p.Offers().Offers() {
		resp.Offers = append(resp.Offers, OfferInfo{ProductCode: o.ProductCode, Kind: o.Kind.String()})
	}
	for _, t := range p.Delivery().Tiers() {
		info := DeliveryInfo{Charge: t.Charge.StringFixed(money.Places)}
		if !t.Unbounded {
			info.Below = t.Threshold.StringFixed(money.Places)
		}
		resp.Delivery = append(resp.Delivery, info)
	}
	return resp
}
