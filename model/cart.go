package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product variant in a user's cart, priced by the backend.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	UserID string          `json:"user_id"`
	Lines  []CartLine      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

type WishlistEntry struct {
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

type Wishlist struct {
	UserID  string          `json:"user_id"`
	Entries []WishlistEntry `json:"items"`
}
