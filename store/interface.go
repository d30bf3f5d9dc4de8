package store

import "context"

// GET  /products/{id}   - product detail
// GET  /products/list   - catalog listing
// POST /cart/add        - add a product variant to a cart
// POST /cart/remove     - drop a product variant from a cart
// POST /wishlist/add    - remember a product
// POST /wishlist/remove - forget a product

type Store interface {
	CreateProduct(ctx context.Context, p ProductRow) error
	GetProduct(ctx context.Context, id string) (ProductRow, error)
	ListProducts(ctx context.Context) ([]ProductRow, error)

	AddToCart(ctx context.Context, userID string, line CartKey, qty int) error
	RemoveFromCart(ctx context.Context, userID string, line CartKey) error
	GetCart(ctx context.Context, userID string) ([]CartRow, error)

	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
	ListWishlist(ctx context.Context, userID string) ([]WishlistRow, error)

	Close() error
}
