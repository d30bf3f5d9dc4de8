// Package effects delivers cart and wishlist intents to the storefront
// backend.
package effects

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/state"
)

// API is the part of the backend client the effect needs.
type API interface {
	AddToCart(ctx context.Context, productID string, qty int, size, color string) error
	AddToWishlist(ctx context.Context, productID string) error
}

type Dispatcher interface {
	Dispatch(a state.Action)
}

// Remote forwards every CartLineIntent and WishlistIntent to the API. Calls
// run in the background; a failed call is reported back as state.SyncFailed.
type Remote struct {
	api     API
	out     Dispatcher
	timeout time.Duration
	logger  *zap.Logger
	sem     *semaphore.Weighted
	base    context.Context
	wg      sync.WaitGroup
}

type Option func(*Remote)

func WithTimeout(d time.Duration) Option { return func(r *Remote) { r.timeout = d } }

func WithLogger(l *zap.Logger) Option { return func(r *Remote) { r.logger = l } }

// WithMaxInFlight caps concurrent backend calls.
func WithMaxInFlight(n int64) Option { return func(r *Remote) { r.sem = semaphore.NewWeighted(n) } }

func NewRemote(ctx context.Context, api API, out Dispatcher, opts ...Option) *Remote {
	r := &Remote{
		api:     api,
		out:     out,
		timeout: 10 * time.Second,
		logger:  zap.NewNop(),
		sem:     semaphore.NewWeighted(4),
		base:    ctx,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Handle implements state.Effect.
func (r *Remote) Handle(a state.Action) {
	switch a := a.(type) {
	case model.CartLineIntent:
		r.spawn(a.ID, a.ActionType(), func(ctx context.Context) error {
			return r.api.AddToCart(ctx, a.Item.ID, a.Quantity, a.Size, a.Color)
		})
	case model.WishlistIntent:
		r.spawn(a.ID, a.ActionType(), func(ctx context.Context) error {
			return r.api.AddToWishlist(ctx, a.ItemID)
		})
	}
}

func (r *Remote) spawn(id uuid.UUID, kind string, call func(context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := r.run(call)
		if err == nil {
			r.logger.Debug("intent synced", zap.Stringer("intent_id", id), zap.String("type", kind))
			return
		}
		r.logger.Warn("intent sync failed",
			zap.Stringer("intent_id", id), zap.String("type", kind), zap.Error(err))
		r.out.Dispatch(state.SyncFailed{IntentID: id, Reason: fmt.Sprintf("%s: %v", kind, err)})
	}()
}

func (r *Remote) run(call func(context.Context) error) error {
	if err := r.sem.Acquire(r.base, 1); err != nil {
		return err
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(r.base, r.timeout)
	defer cancel()
	return call(ctx)
}

// Wait blocks until every call started so far has finished.
func (r *Remote) Wait() { r.wg.Wait() }
