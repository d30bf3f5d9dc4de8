// Package state holds the client-side storefront state: the product detail
// load, the locally known cart lines and the wishlist. Views read snapshots
// and submit actions; nothing writes the state directly.
package state

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-coder/storefront/model"
)

// Action is a request to change the state.
type Action interface {
	ActionType() string
}

// LoadRequested moves the detail record to Loading for Tag.
type LoadRequested struct{ Tag RequestTag }

// LoadSucceeded commits Item if Tag is still the one being loaded.
type LoadSucceeded struct {
	Tag  RequestTag
	Item model.CatalogItem
}

// LoadFailed commits Reason if Tag is still the one being loaded.
type LoadFailed struct {
	Tag    RequestTag
	Reason string
}

// SyncFailed records that an intent could not be delivered to the backend.
type SyncFailed struct {
	IntentID uuid.UUID
	Reason   string
}

func (LoadRequested) ActionType() string { return "productDetails/request" }
func (LoadSucceeded) ActionType() string { return "productDetails/success" }
func (LoadFailed) ActionType() string    { return "productDetails/fail" }
func (SyncFailed) ActionType() string    { return "sync/fail" }

// maxSyncErrors bounds Snapshot.SyncErrors.
const maxSyncErrors = 20

type Snapshot struct {
	Detail     DetailLoadState
	Cart       []model.CartLineIntent
	Wishlist   []string
	SyncErrors []string
}

func (s Snapshot) clone() Snapshot {
	s.Cart = slices.Clone(s.Cart)
	s.Wishlist = slices.Clone(s.Wishlist)
	s.SyncErrors = slices.Clone(s.SyncErrors)
	return s
}

// InWishlist reports whether id was added to the wishlist.
func (s Snapshot) InWishlist(id string) bool { return slices.Contains(s.Wishlist, id) }

// Effect observes every dispatched action after it has been reduced.
// Handle runs on the dispatching goroutine and must not block.
type Effect interface {
	Handle(a Action)
}

type EffectFunc func(a Action)

func (f EffectFunc) Handle(a Action) { f(a) }

type Store struct {
	mu      sync.Mutex
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
	effects []Effect
	logger  *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

func WithEffect(e Effect) Option { return func(s *Store) { s.effects = append(s.effects, e) } }

func NewStore(opts ...Option) *Store {
	s := &Store{subs: map[int]func(Snapshot){}, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Use registers an effect after construction, for effects that need the
// store themselves.
func (s *Store) Use(e Effect) {
	s.mu.Lock()
	s.effects = append(s.effects, e)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch reduces a, notifies subscribers if the state changed and then
// hands a to every effect.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	next, changed := s.reduce(s.snap, a)
	s.snap = next
	var subs []func(Snapshot)
	if changed {
		subs = make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	effects := slices.Clone(s.effects)
	view := next.clone()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(view)
	}
	for _, e := range effects {
		e.Handle(a)
	}
}

func (s *Store) reduce(cur Snapshot, a Action) (Snapshot, bool) {
	switch a := a.(type) {
	case LoadRequested:
		cur.Detail = DetailLoadState{Phase: PhaseLoading, Tag: a.Tag}
		return cur, true

	case LoadSucceeded:
		if !cur.Detail.awaiting(a.Tag) {
			s.logger.Debug("dropping stale load result",
				zap.String("product_id", a.Tag.ID), zap.Uint64("seq", a.Tag.Seq))
			return cur, false
		}
		cur.Detail = DetailLoadState{Phase: PhaseLoaded, Tag: a.Tag, Item: a.Item}
		return cur, true

	case LoadFailed:
		if !cur.Detail.awaiting(a.Tag) {
			s.logger.Debug("dropping stale load failure",
				zap.String("product_id", a.Tag.ID), zap.Uint64("seq", a.Tag.Seq))
			return cur, false
		}
		cur.Detail = DetailLoadState{Phase: PhaseFailed, Tag: a.Tag, Reason: a.Reason}
		return cur, true

	case model.CartLineIntent:
		cur.Cart = append(slices.Clone(cur.Cart), a)
		return cur, true

	case model.WishlistIntent:
		if cur.InWishlist(a.ItemID) {
			return cur, false
		}
		cur.Wishlist = append(slices.Clone(cur.Wishlist), a.ItemID)
		return cur, true

	case SyncFailed:
		errs := append(slices.Clone(cur.SyncErrors), a.Reason)
		if len(errs) > maxSyncErrors {
			errs = errs[len(errs)-maxSyncErrors:]
		}
		cur.SyncErrors = errs
		return cur, true
	}

	s.logger.Warn("unknown action", zap.String("type", a.ActionType()))
	return cur, false
}
