// Package view renders storefront items into plain models and turns user
// actions into intents for the state store.
//
// SummaryCard and DetailView are not safe for concurrent use; call them
// from the event loop goroutine only.
package view

import (
	"net/url"
	"strings"

	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/state"
)

// PlaceholderImage stands in for a missing product image.
const PlaceholderImage = "/static/placeholder.png"

// Dispatcher accepts actions for the state store.
type Dispatcher interface {
	Dispatch(a state.Action)
}

type CardModel struct {
	ID          string
	Name        string
	Image       string
	Link        string
	Placeholder bool
	Price       PriceModel
	Stars       [StarCount]bool
	ReviewCount int
}

// ProductLink is the detail page route for id.
func ProductLink(id string) string {
	return "/product/" + url.PathEscape(id)
}

// RenderCard is the summary of it. Without an id or images it degrades to
// a placeholder card rather than failing.
func RenderCard(it model.CatalogItem) CardModel {
	m := CardModel{
		ID:          it.ID,
		Name:        it.Name,
		Price:       priceOf(it),
		Stars:       Stars(it.Rating),
		ReviewCount: it.NumReviews,
	}
	if len(it.Images) > 0 && it.Images[0] != "" {
		m.Image = it.Images[0]
	} else {
		m.Image = PlaceholderImage
		m.Placeholder = true
	}
	if strings.TrimSpace(it.ID) != "" {
		m.Link = ProductLink(it.ID)
	} else {
		m.Placeholder = true
	}
	if m.Name == "" {
		m.Name = "Unnamed product"
	}
	return m
}

// SummaryCard is a leaf view over one item. It keeps no state of its own.
type SummaryCard struct {
	item     model.CatalogItem
	dispatch Dispatcher
}

func NewSummaryCard(it model.CatalogItem, d Dispatcher) *SummaryCard {
	return &SummaryCard{item: it, dispatch: d}
}

func (c *SummaryCard) Item() model.CatalogItem { return c.item }

func (c *SummaryCard) Render() CardModel { return RenderCard(c.item) }

// OnAddToCart adds one unit with no variant. It reports false, and
// dispatches nothing, for a card without an id.
func (c *SummaryCard) OnAddToCart() bool {
	if c.item.ID == "" {
		return false
	}
	c.dispatch.Dispatch(model.NewCartLineIntent(c.item, 1, "", ""))
	return true
}

func (c *SummaryCard) OnAddToWishlist() bool {
	if c.item.ID == "" {
		return false
	}
	c.dispatch.Dispatch(model.NewWishlistIntent(c.item.ID))
	return true
}
