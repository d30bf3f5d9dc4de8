package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned when a catalog record does not satisfy the
// CatalogItem schema.
var ErrInvalidItem = errors.New("invalid catalog item")

// CatalogItem is a single product record with pricing, media and variant
// metadata. Views treat it as read-only.
type CatalogItem struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Price            decimal.Decimal  `json:"price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price,omitempty"`
	Images           []string         `json:"images"`
	Rating           float64          `json:"rating"`
	NumReviews       int              `json:"num_reviews"`
	Sizes            []string         `json:"sizes"`
	Colors           []string         `json:"colors"`
	ShortDescription string           `json:"short_description,omitempty"`
	Description      string           `json:"description,omitempty"`
}

// Normalized returns a copy with a zero discount price dropped and nil
// slices replaced by empty ones.
func (it CatalogItem) Normalized() CatalogItem {
	if it.DiscountPrice != nil && it.DiscountPrice.IsZero() {
		it.DiscountPrice = nil
	}
	if it.Images == nil {
		it.Images = []string{}
	}
	if it.Sizes == nil {
		it.Sizes = []string{}
	}
	if it.Colors == nil {
		it.Colors = []string{}
	}
	return it
}

// Validate checks the record against the schema. An empty image list is
// allowed; views render a placeholder for it.
func (it CatalogItem) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	if it.DiscountPrice != nil {
		if it.DiscountPrice.IsNegative() {
			return fmt.Errorf("%w: discount price must be >= 0", ErrInvalidItem)
		}
		if !it.DiscountPrice.LessThan(it.Price) {
			return fmt.Errorf("%w: discount price must be below price", ErrInvalidItem)
		}
	}
	if math.IsNaN(it.Rating) || it.Rating < 0 || it.Rating > 5 {
		return fmt.Errorf("%w: rating must be in [0,5]", ErrInvalidItem)
	}
	if it.NumReviews < 0 {
		return fmt.Errorf("%w: review count must be >= 0", ErrInvalidItem)
	}
	if slices.Contains(it.Sizes, "") {
		return fmt.Errorf("%w: empty size", ErrInvalidItem)
	}
	if slices.Contains(it.Colors, "") {
		return fmt.Errorf("%w: empty color", ErrInvalidItem)
	}
	return nil
}

// HasDiscount reports a positive discount price. A zero discount is no
// discount.
func (it CatalogItem) HasDiscount() bool {
	return it.DiscountPrice != nil && it.DiscountPrice.IsPositive()
}

func (it CatalogItem) HasSize(size string) bool {
	return size != "" && slices.Contains(it.Sizes, size)
}

func (it CatalogItem) HasColor(color string) bool {
	return color != "" && slices.Contains(it.Colors, color)
}

// UnitPrice is the price a buyer pays for one unit.
func (it CatalogItem) UnitPrice() decimal.Decimal {
	if it.HasDiscount() {
		return *it.DiscountPrice
	}
	return it.Price
}
