package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/store"
)

var (
	// ErrInvalidInput marks requests missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidVariant marks a size or color the product does not offer.
	ErrInvalidVariant = errors.New("variant not offered")
)

// CartLineInput names a product variant and, for adds, how many units.
type CartLineInput struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

type Service struct {
	store  store.Store
	logger *zap.Logger
}

func NewService(s store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, logger: logger}
}

// CreateProduct validates the item and stores it, generating an id when
// none is given.
func (s *Service) CreateProduct(ctx context.Context, item model.CatalogItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item = item.Normalized()
	if err := item.Validate(); err != nil {
		return "", err
	}
	if err := s.store.CreateProduct(ctx, toRow(item)); err != nil {
		return "", fmt.Errorf("create product %s: %w", item.ID, err)
	}
	s.logger.Info("product created", zap.String("product_id", item.ID))
	return item.ID, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (model.CatalogItem, error) {
	if id == "" {
		return model.CatalogItem{}, fmt.Errorf("%w: product id required", ErrInvalidInput)
	}
	row, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return fromRow(row), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]model.CatalogItem, error) {
	rows, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.CatalogItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

// AddToCart checks the variant against the product before storing the
// line. An empty size or color means the buyer did not pick one.
func (s *Service) AddToCart(ctx context.Context, userID string, line CartLineInput) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id required", ErrInvalidInput)
	}
	if line.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrInvalidInput)
	}
	item, err := s.GetProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if line.Size != "" && !item.HasSize(line.Size) {
		return fmt.Errorf("%w: size %q for product %s", ErrInvalidVariant, line.Size, item.ID)
	}
	if line.Color != "" && !item.HasColor(line.Color) {
		return fmt.Errorf("%w: color %q for product %s", ErrInvalidVariant, line.Color, item.ID)
	}
	key := store.CartKey{ProductID: item.ID, Size: line.Size, Color: line.Color}
	if err := s.store.AddToCart(ctx, userID, key, line.Quantity); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	s.logger.Debug("cart line added",
		zap.String("user_id", userID),
		zap.String("product_id", item.ID),
		zap.Int("quantity", line.Quantity),
		zap.String("size", line.Size),
		zap.String("color", line.Color))
	return nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID string, line CartLineInput) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id required", ErrInvalidInput)
	}
	key := store.CartKey{ProductID: line.ProductID, Size: line.Size, Color: line.Color}
	return s.store.RemoveFromCart(ctx, userID, key)
}

// GetCart prices every line at the product's current unit price, which is
// the discount price when one is set.
func (s *Service) GetCart(ctx context.Context, userID string) (model.Cart, error) {
	if userID == "" {
		return model.Cart{}, fmt.Errorf("%w: user_id required", ErrInvalidInput)
	}
	rows, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	cart := model.Cart{UserID: userID, Lines: make([]model.CartLine, 0, len(rows)), Total: decimal.Zero}
	for _, r := range rows {
		unit := r.Price
		if r.DiscountPrice.Valid && r.DiscountPrice.Decimal.IsPositive() {
			unit = r.DiscountPrice.Decimal
		}
		sub := unit.Mul(decimal.NewFromInt(int64(r.Quantity)))
		cart.Lines = append(cart.Lines, model.CartLine{
			ProductID: r.ProductID,
			Name:      r.Name,
			Size:      r.Size,
			Color:     r.Color,
			Quantity:  r.Quantity,
			UnitPrice: unit,
			Subtotal:  sub,
		})
		cart.Total = cart.Total.Add(sub)
	}
	return cart, nil
}

func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id required", ErrInvalidInput)
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.store.AddToWishlist(ctx, userID, productID)
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id required", ErrInvalidInput)
	}
	return s.store.RemoveFromWishlist(ctx, userID, productID)
}

func (s *Service) GetWishlist(ctx context.Context, userID string) (model.Wishlist, error) {
	if userID == "" {
		return model.Wishlist{}, fmt.Errorf("%w: user_id required", ErrInvalidInput)
	}
	rows, err := s.store.ListWishlist(ctx, userID)
	if err != nil {
		return model.Wishlist{}, err
	}
	wl := model.Wishlist{UserID: userID, Entries: make([]model.WishlistEntry, 0, len(rows))}
	for _, r := range rows {
		wl.Entries = append(wl.Entries, model.WishlistEntry{ProductID: r.ProductID, AddedAt: r.CreatedAt})
	}
	return wl, nil
}

func fromRow(r store.ProductRow) model.CatalogItem {
	it := model.CatalogItem{
		ID:               r.ID,
		Name:             r.Name,
		Price:            r.Price,
		Images:           []string(r.Images),
		Rating:           r.Rating,
		NumReviews:       r.NumReviews,
		Sizes:            []string(r.Sizes),
		Colors:           []string(r.Colors),
		ShortDescription: r.ShortDescription.String,
		Description:      r.Description.String,
	}
	if r.DiscountPrice.Valid {
		d := r.DiscountPrice.Decimal
		it.DiscountPrice = &d
	}
	return it.Normalized()
}

func toRow(it model.CatalogItem) store.ProductRow {
	r := store.ProductRow{
		ID:               it.ID,
		Name:             it.Name,
		Price:            it.Price,
		Images:           pq.StringArray(it.Images),
		Rating:           it.Rating,
		NumReviews:       it.NumReviews,
		Sizes:            pq.StringArray(it.Sizes),
		Colors:           pq.StringArray(it.Colors),
		ShortDescription: sql.NullString{String: it.ShortDescription, Valid: it.ShortDescription != ""},
		Description:      sql.NullString{String: it.Description, Valid: it.Description != ""},
	}
	if it.DiscountPrice != nil {
		r.DiscountPrice = decimal.NewNullDecimal(*it.DiscountPrice)
	}
	return r
}
