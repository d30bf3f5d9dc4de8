package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/service"
	"github.com/go-coder/storefront/store"
)

type fakeService struct {
	items    map[string]model.CatalogItem
	cartAdds []service.CartLineInput
	wished   []string
}

func (f *fakeService) CreateProduct(_ context.Context, it model.CatalogItem) (string, error) {
	if err := it.Normalized().Validate(); err != nil {
		return "", err
	}
	if _, ok := f.items[it.ID]; ok {
		return "", store.ErrDuplicate
	}
	f.items[it.ID] = it
	return it.ID, nil
}

func (f *fakeService) GetProduct(_ context.Context, id string) (model.CatalogItem, error) {
	it, ok := f.items[id]
	if !ok {
		return model.CatalogItem{}, fmt.Errorf("get product %s: %w", id, store.ErrNotFound)
	}
	return it, nil
}

func (f *fakeService) ListProducts(context.Context) ([]model.CatalogItem, error) {
	out := []model.CatalogItem{}
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeService) AddToCart(_ context.Context, userID string, line service.CartLineInput) error {
	it, ok := f.items[line.ProductID]
	if !ok {
		return store.ErrNotFound
	}
	if line.Size != "" && !it.HasSize(line.Size) {
		return service.ErrInvalidVariant
	}
	f.cartAdds = append(f.cartAdds, line)
	return nil
}

func (f *fakeService) RemoveFromCart(context.Context, string, service.CartLineInput) error {
	return errors.New("db down")
}

func (f *fakeService) GetCart(_ context.Context, userID string) (model.Cart, error) {
	return model.Cart{UserID: userID, Lines: []model.CartLine{}, Total: decimal.NewFromInt(42)}, nil
}

func (f *fakeService) AddToWishlist(_ context.Context, userID, productID string) error {
	f.wished = append(f.wished, productID)
	return nil
}

func (f *fakeService) RemoveFromWishlist(context.Context, string, string) error {
	return store.ErrNotFound
}

func (f *fakeService) GetWishlist(_ context.Context, userID string) (model.Wishlist, error) {
	return model.Wishlist{UserID: userID, Entries: []model.WishlistEntry{}}, nil
}

func newRouter(svc *fakeService) *mux.Router {
	r := mux.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func shirt() model.CatalogItem {
	return model.CatalogItem{
		ID:     "X123",
		Name:   "Linen shirt",
		Price:  decimal.NewFromInt(100),
		Images: []string{"a.jpg"},
		Sizes:  []string{"M"},
		Colors: []string{},
	}
}

func TestGetProduct(t *testing.T) {
	svc := &fakeService{items: map[string]model.CatalogItem{"X123": shirt()}}
	r := newRouter(svc)

	rec := do(t, r, http.MethodGet, "/products/X123", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got model.CatalogItem
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "X123" || !got.Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected product: %+v", got)
	}

	rec = do(t, r, http.MethodGet, "/products/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	svc := &fakeService{items: map[string]model.CatalogItem{"X123": shirt()}}
	r := newRouter(svc)

	cases := []struct {
		body string
		code int
	}{
		{`{`, http.StatusBadRequest},
		{`{"id":"X9","name":"","price":"1"}`, http.StatusBadRequest},
		{`{"id":"X123","name":"dup","price":"1"}`, http.StatusConflict},
		{`{"id":"X9","name":"Cap","price":"15","images":["c.jpg"]}`, http.StatusCreated},
	}
	for _, tc := range cases {
		rec := do(t, r, http.MethodPost, "/products", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("body %s: expected %d, got %d (%s)", tc.body, tc.code, rec.Code, rec.Body.String())
		}
	}
	if _, ok := svc.items["X9"]; !ok {
		t.Fatalf("expected X9 to be created")
	}
}

func TestAddToCart(t *testing.T) {
	svc := &fakeService{items: map[string]model.CatalogItem{"X123": shirt()}}
	r := newRouter(svc)

	cases := []struct {
		body string
		code int
	}{
		{`not json`, http.StatusBadRequest},
		{`{"product_id":"X123","quantity":1}`, http.StatusBadRequest},
		{`{"user_id":"u1","product_id":"X123","quantity":0}`, http.StatusBadRequest},
		{`{"user_id":"u1","product_id":"X123","quantity":1,"size":"XL"}`, http.StatusBadRequest},
		{`{"user_id":"u1","product_id":"nope","quantity":1}`, http.StatusNotFound},
		{`{"user_id":"u1","product_id":"X123","quantity":3,"size":"M","color":"red"}`, http.StatusOK},
	}
	for _, tc := range cases {
		rec := do(t, r, http.MethodPost, "/cart/add", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("body %s: expected %d, got %d (%s)", tc.body, tc.code, rec.Code, rec.Body.String())
		}
	}
	want := service.CartLineInput{ProductID: "X123", Quantity: 3, Size: "M", Color: "red"}
	if len(svc.cartAdds) != 1 || svc.cartAdds[0] != want {
		t.Fatalf("unexpected cart adds: %+v", svc.cartAdds)
	}
}

func TestInternalErrorsAreMasked(t *testing.T) {
	r := newRouter(&fakeService{items: map[string]model.CatalogItem{}})
	rec := do(t, r, http.MethodPost, "/cart/remove", `{"user_id":"u1","product_id":"X1"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestCartAndWishlistLists(t *testing.T) {
	svc := &fakeService{items: map[string]model.CatalogItem{"X123": shirt()}}
	r := newRouter(svc)

	if rec := do(t, r, http.MethodGet, "/cart/list", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user_id, got %d", rec.Code)
	}
	rec := do(t, r, http.MethodGet, "/cart/list?user_id=u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cart model.Cart
	if err := json.NewDecoder(rec.Body).Decode(&cart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.UserID != "u1" || !cart.Total.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	if rec := do(t, r, http.MethodPost, "/wishlist/add", `{"user_id":"u1","product_id":"X123"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.wished) != 1 || svc.wished[0] != "X123" {
		t.Fatalf("unexpected wishlist adds: %v", svc.wished)
	}
	if rec := do(t, r, http.MethodPost, "/wishlist/remove", `{"user_id":"u1","product_id":"X1"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/wishlist/list?user_id=u1", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/ping", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from ping, got %d", rec.Code)
	}
}
