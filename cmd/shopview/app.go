package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/state"
	"github.com/go-coder/storefront/view"
)

// catalog is the backend surface the shell reads from directly.
type catalog interface {
	ListProducts(ctx context.Context) ([]model.CatalogItem, error)
	GetCart(ctx context.Context) (model.Cart, error)
	GetWishlist(ctx context.Context) (model.Wishlist, error)
}

const helpText = `commands:
  list               list products
  open <id>          open a product page
  size <s>           pick a size
  color <c>          pick a color
  + | -              change the quantity
  tab <name>         description, specifications, reviews, qa
  cart               add the current selection to the cart
  wish               add the current product to the wishlist
  card-cart <n>      add product n from the list to the cart
  card-wish <n>      add product n from the list to the wishlist
  basket             show the cart stored on the server
  wishlist           show the wishlist stored on the server
  reload | show | close | help | quit
`

// app owns the views. Every method runs on the event loop.
type app struct {
	ctx     context.Context
	out     io.Writer
	logger  *zap.Logger
	store   *state.Store
	loop    view.Poster
	catalog catalog
	detail  *view.DetailView
	cards   []*view.SummaryCard
	quit    func()

	lastDetail state.DetailLoadState
	lastErrs   int
	lastErr    string
}

type command struct {
	name string
	arg  string
}

func parseCommand(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, false
	}
	name, arg, _ := strings.Cut(line, " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) exec(line string) {
	cmd, ok := parseCommand(line)
	if !ok {
		return
	}
	switch cmd.name {
	case "help", "?":
		a.printf("%s", helpText)
	case "quit", "exit":
		a.quit()
	case "list":
		a.list()
	case "open":
		if cmd.arg == "" {
			a.printf("usage: open <id>\n")
			return
		}
		a.detail.Navigate(cmd.arg)
	case "reload":
		a.detail.Reload()
	case "close":
		a.detail.Unmount()
		a.show()
	case "show":
		a.show()
	case "size":
		a.report(a.detail.SelectSize(cmd.arg), "size %q is not offered", cmd.arg)
	case "color":
		a.report(a.detail.SelectColor(cmd.arg), "color %q is not offered", cmd.arg)
	case "+":
		a.report(a.detail.IncrementQuantity(), "nothing to change")
	case "-":
		a.report(a.detail.DecrementQuantity(), "quantity is already at its minimum")
	case "tab":
		t, ok := view.ParseTab(cmd.arg)
		if !ok {
			a.printf("unknown tab %q\n", cmd.arg)
			return
		}
		a.report(a.detail.SelectTab(t), "no product loaded")
	case "cart":
		if a.detail.AddToCart() {
			sel := a.detail.Selection()
			a.printf("added %d to cart\n", sel.Quantity)
			return
		}
		a.printf("no product loaded\n")
	case "wish":
		if a.detail.AddToWishlist() {
			a.printf("added to wishlist\n")
			return
		}
		a.printf("no product loaded\n")
	case "card-cart", "card-wish":
		c, err := a.card(cmd.arg)
		if err != nil {
			a.printf("%v\n", err)
			return
		}
		var ok bool
		if cmd.name == "card-cart" {
			ok = c.OnAddToCart()
		} else {
			ok = c.OnAddToWishlist()
		}
		if !ok {
			a.printf("product has no id\n")
			return
		}
		a.printf("added %s\n", c.Render().Name)
	case "basket":
		a.basket()
	case "wishlist":
		a.wishlist()
	default:
		a.printf("unknown command %q, try help\n", cmd.name)
	}
}

// report re-renders after a successful control or explains a no-op.
func (a *app) report(ok bool, format string, args ...any) {
	if !ok {
		a.printf(format+"\n", args...)
		return
	}
	a.show()
}

func (a *app) show() {
	if err := view.WriteDetail(a.out, a.detail.Render()); err != nil {
		a.logger.Warn("render failed", zap.Error(err))
	}
}

func (a *app) card(arg string) (*view.SummaryCard, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.cards) {
		return nil, fmt.Errorf("no product %q in the list, run list first", arg)
	}
	return a.cards[n-1], nil
}

// list fetches off the loop and hands the result back to it.
func (a *app) list() {
	go func() {
		items, err := a.catalog.ListProducts(a.ctx)
		a.loop.Post(func() {
			if err != nil {
				a.printf("could not list products: %v\n", err)
				return
			}
			a.cards = a.cards[:0]
			for i, it := range items {
				c := view.NewSummaryCard(it, a.store)
				a.cards = append(a.cards, c)
				a.printf("%2d. ", i+1)
				if err := view.WriteCard(a.out, c.Render()); err != nil {
					a.logger.Warn("render failed", zap.Error(err))
				}
			}
			if len(items) == 0 {
				a.printf("no products\n")
			}
		})
	}()
}

func (a *app) basket() {
	go func() {
		cart, err := a.catalog.GetCart(a.ctx)
		a.loop.Post(func() {
			if err != nil {
				a.printf("could not load cart: %v\n", err)
				return
			}
			for _, l := range cart.Lines {
				a.printf("%d x %s %s %s  %s\n", l.Quantity, l.Name, l.Size, l.Color, view.FormatMoney(l.Subtotal))
			}
			a.printf("total %s\n", view.FormatMoney(cart.Total))
		})
	}()
}

func (a *app) wishlist() {
	go func() {
		wl, err := a.catalog.GetWishlist(a.ctx)
		a.loop.Post(func() {
			if err != nil {
				a.printf("could not load wishlist: %v\n", err)
				return
			}
			for _, e := range wl.Entries {
				a.printf("%s  %s\n", e.ProductID, e.AddedAt.Format("2006-01-02"))
			}
			if len(wl.Entries) == 0 {
				a.printf("wishlist is empty\n")
			}
		})
	}()
}

// onChange runs on the loop after the store changed. It redraws the page
// when the detail record moved and prints new sync failures.
func (a *app) onChange(s state.Snapshot) {
	if s.Detail.Phase != a.lastDetail.Phase || s.Detail.Tag != a.lastDetail.Tag {
		a.lastDetail = s.Detail
		if a.detail.Mounted() {
			a.show()
		}
	}
	n := len(s.SyncErrors)
	if n == 0 || (n == a.lastErrs && s.SyncErrors[n-1] == a.lastErr) {
		return
	}
	a.lastErrs, a.lastErr = n, s.SyncErrors[n-1]
	a.printf("! %s\n", a.lastErr)
}
