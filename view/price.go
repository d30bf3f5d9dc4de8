package view

import (
	"github.com/shopspring/decimal"

	"github.com/go-coder/storefront/model"
)

// PriceModel is the price block of a card or detail page. With Discounted
// set, Current is the discount price and Original the struck-through base
// price; otherwise Current is the base price and Original is unused.
type PriceModel struct {
	Current    decimal.Decimal
	Original   decimal.Decimal
	Discounted bool

	// Percent is only set on detail pages, and only when HasPercent.
	Percent    int64
	HasPercent bool
}

func priceOf(it model.CatalogItem) PriceModel {
	if !it.HasDiscount() {
		return PriceModel{Current: it.Price}
	}
	return PriceModel{Current: *it.DiscountPrice, Original: it.Price, Discounted: true}
}

func detailPriceOf(it model.CatalogItem) PriceModel {
	p := priceOf(it)
	if p.Discounted {
		p.Percent, p.HasPercent = DiscountPercent(it.Price, *it.DiscountPrice)
	}
	return p
}

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns round((1 - discount/price) * 100). There is no
// percentage for a non-positive price.
func DiscountPercent(price, discount decimal.Decimal) (int64, bool) {
	if !price.IsPositive() {
		return 0, false
	}
	pct := decimal.NewFromInt(1).Sub(discount.Div(price)).Mul(hundred).Round(0)
	return pct.IntPart(), true
}

// FormatMoney renders d with a dollar sign and two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
