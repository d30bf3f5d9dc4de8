// Package apiclient talks to the storefront HTTP API on behalf of one user.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-coder/storefront/model"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// APIError carries a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func New(baseURL, userID string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) UserID() string { return c.userID }

func (c *Client) GetProduct(ctx context.Context, id string) (model.CatalogItem, error) {
	var it model.CatalogItem
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &it)
	return it, err
}

func (c *Client) ListProducts(ctx context.Context) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	err := c.do(ctx, http.MethodGet, "/products/list", nil, &items)
	return items, err
}

func (c *Client) AddToCart(ctx context.Context, productID string, qty int, size, color string) error {
	body := map[string]any{
		"user_id":    c.userID,
		"product_id": productID,
		"quantity":   qty,
		"size":       size,
		"color":      color,
	}
	return c.do(ctx, http.MethodPost, "/cart/add", body, nil)
}

func (c *Client) GetCart(ctx context.Context) (model.Cart, error) {
	var cart model.Cart
	err := c.do(ctx, http.MethodGet, "/cart/list?user_id="+url.QueryEscape(c.userID), nil, &cart)
	return cart, err
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	body := map[string]string{"user_id": c.userID, "product_id": productID}
	return c.do(ctx, http.MethodPost, "/wishlist/add", body, nil)
}

func (c *Client) GetWishlist(ctx context.Context) (model.Wishlist, error) {
	var wl model.Wishlist
	err := c.do(ctx, http.MethodGet, "/wishlist/list?user_id="+url.QueryEscape(c.userID), nil, &wl)
	return wl, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
