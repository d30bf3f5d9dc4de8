package view

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-coder/storefront/eventloop"
	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/state"
)

type loadResult struct {
	item model.CatalogItem
	err  error
}

type pendingLoad struct {
	id  string
	res chan loadResult
}

// gatedLoader holds every load until the test resolves it. Like a backend
// that does not honour cancellation, it ignores ctx.
type gatedLoader struct {
	mu      sync.Mutex
	calls   []string
	pending []*pendingLoad
}

var errLoaderClosed = errors.New("loader closed")

func (g *gatedLoader) LoadItemDetail(_ context.Context, id string) (model.CatalogItem, error) {
	p := &pendingLoad{id: id, res: make(chan loadResult, 1)}
	g.mu.Lock()
	g.calls = append(g.calls, id)
	g.pending = append(g.pending, p)
	g.mu.Unlock()
	r := <-p.res
	return r.item, r.err
}

// waitForCall waits until a load of id has been issued.
func (g *gatedLoader) waitForCall(id string) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		called := slices.Contains(g.calls, id)
		g.mu.Unlock()
		if called {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return errors.New("no load issued for " + id)
}

func (g *gatedLoader) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// take waits for the oldest pending load of id and removes it.
func (g *gatedLoader) take(id string) (*pendingLoad, error) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		for i, p := range g.pending {
			if p.id == id {
				g.pending = append(g.pending[:i], g.pending[i+1:]...)
				g.mu.Unlock()
				return p, nil
			}
		}
		g.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	return nil, errors.New("no pending load for " + id)
}

func (g *gatedLoader) closeAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.pending {
		p.res <- loadResult{err: errLoaderClosed}
	}
	g.pending = nil
}

type harness struct {
	t      *testing.T
	loop   *eventloop.Loop
	store  *state.Store
	loader *gatedLoader
	view   *DetailView
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		loop:   eventloop.New(nil),
		store:  state.NewStore(),
		loader: &gatedLoader{},
	}
	h.view = NewDetailView(context.Background(), h.store, h.loader, h.loop)
	t.Cleanup(h.loader.closeAll)
	return h
}

// resolve completes the oldest pending load of id and runs its callback
// on the loop.
func (h *harness) resolve(id string, it model.CatalogItem, err error) {
	h.t.Helper()
	p, terr := h.loader.take(id)
	if terr != nil {
		h.t.Fatal(terr)
	}
	p.res <- loadResult{item: it, err: err}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.loop.RunOne(ctx); err != nil {
		h.t.Fatalf("waiting for load callback: %v", err)
	}
}

func (h *harness) mountLoaded(it model.CatalogItem) {
	h.t.Helper()
	h.view.Mount(it.ID)
	h.resolve(it.ID, it, nil)
	if h.view.Render().Phase != state.PhaseLoaded {
		h.t.Fatalf("expected %s to be loaded", it.ID)
	}
}

type recorder struct {
	actions []state.Action
}

func (r *recorder) Dispatch(a state.Action) { r.actions = append(r.actions, a) }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func shirt() model.CatalogItem {
	return model.CatalogItem{
		ID:               "X123",
		Name:             "Linen shirt",
		Price:            money("100"),
		DiscountPrice:    moneyPtr("80"),
		Images:           []string{"front.jpg", "back.jpg"},
		Rating:           4.7,
		NumReviews:       12,
		Sizes:            []string{"S", "M", "L"},
		Colors:           []string{"red", "navy"},
		ShortDescription: "Breathable linen.",
		Description:      "A long description.",
	}
}
