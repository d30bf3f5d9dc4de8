package model

import "github.com/google/uuid"

// CartLineIntent asks the cart to take Quantity units of Item in the given
// variant. Size and Color are empty when no variant was chosen. It is a
// one-shot message, not a stored entity.
type CartLineIntent struct {
	ID       uuid.UUID   `json:"id"`
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
	Size     string      `json:"size,omitempty"`
	Color    string      `json:"color,omitempty"`
}

func NewCartLineIntent(item CatalogItem, qty int, size, color string) CartLineIntent {
	return CartLineIntent{
		ID:       uuid.New(),
		Item:     item,
		Quantity: qty,
		Size:     size,
		Color:    color,
	}
}

func (CartLineIntent) ActionType() string { return "cart/addLine" }

// WishlistIntent asks the wishlist to remember ItemID.
type WishlistIntent struct {
	ID     uuid.UUID `json:"id"`
	ItemID string    `json:"item_id"`
}

func NewWishlistIntent(itemID string) WishlistIntent {
	return WishlistIntent{ID: uuid.New(), ItemID: itemID}
}

func (WishlistIntent) ActionType() string { return "wishlist/add" }
