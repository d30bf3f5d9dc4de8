package service

import (
	"context"

	"github.com/go-coder/storefront/model"
)

type ServiceInterface interface {
	CreateProduct(ctx context.Context, item model.CatalogItem) (string, error)
	GetProduct(ctx context.Context, id string) (model.CatalogItem, error)
	ListProducts(ctx context.Context) ([]model.CatalogItem, error)

	AddToCart(ctx context.Context, userID string, line CartLineInput) error
	RemoveFromCart(ctx context.Context, userID string, line CartLineInput) error
	GetCart(ctx context.Context, userID string) (model.Cart, error)

	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
	GetWishlist(ctx context.Context, userID string) (model.Wishlist, error)
}
