package view

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-coder/storefront/loader"
	"github.com/go-coder/storefront/model"
	"github.com/go-coder/storefront/state"
)

// StateStore is the part of the state store a detail page needs.
type StateStore interface {
	Dispatcher
	Snapshot() state.Snapshot
}

// Poster schedules a callback on the goroutine that owns the views.
type Poster interface {
	Post(fn func())
}

// Delivery lines shown under the actions of every detail page.
var Delivery = []string{
	"Free shipping on orders over $50",
	"Estimated delivery: 3-5 business days",
}

type OptionModel struct {
	Value    string
	Selected bool
}

type TabModel struct {
	Tab    Tab
	Label  string
	Active bool
}

// DetailModel is a rendered detail page. Only Phase, ID and Reason are
// meaningful unless Phase is state.PhaseLoaded.
type DetailModel struct {
	Phase  state.Phase
	ID     string
	Reason string

	Name        string
	MainImage   string
	Thumbnails  []string
	Placeholder bool

	Stars       [StarCount]bool
	ReviewCount int
	Price       PriceModel

	ShortDescription string
	Sizes            []OptionModel
	Colors           []OptionModel

	Quantity          int
	DecrementDisabled bool
	InWishlist        bool

	Tabs      []TabModel
	ActiveTab Tab
	// Panel is the content of the active tab; empty for tabs without data.
	Panel string

	Delivery []string
}

// DetailView is a product detail page. It owns the in-progress selection
// and the active tab; the loaded record lives in the state store.
//
// Every load is tagged. A result whose tag is not the latest one issued is
// dropped, so a slow response for a page the user already left never
// replaces the page they are on.
type DetailView struct {
	store  StateStore
	loader loader.Loader
	loop   Poster
	logger *zap.Logger
	base   context.Context

	mounted bool
	tag     state.RequestTag
	seq     uint64
	cancel  context.CancelFunc

	sel Selection
	tab Tab
}

type DetailOption func(*DetailView)

func WithDetailLogger(l *zap.Logger) DetailOption {
	return func(v *DetailView) { v.logger = l }
}

// NewDetailView builds an unmounted page. ctx bounds every load it issues.
func NewDetailView(ctx context.Context, st StateStore, ld loader.Loader, loop Poster, opts ...DetailOption) *DetailView {
	v := &DetailView{
		store:  st,
		loader: ld,
		loop:   loop,
		logger: zap.NewNop(),
		base:   ctx,
		sel:    DefaultSelection(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Mount shows the page for id and starts loading it.
func (v *DetailView) Mount(id string) {
	v.mounted = true
	v.load(id)
}

// Navigate switches the mounted page to id. Navigating to the id already
// shown does nothing; use Reload to fetch it again.
func (v *DetailView) Navigate(id string) {
	if !v.mounted {
		v.Mount(id)
		return
	}
	if id == v.tag.ID {
		return
	}
	v.load(id)
}

// Reload fetches the current id again.
func (v *DetailView) Reload() {
	if v.mounted {
		v.load(v.tag.ID)
	}
}

// Unmount abandons any in-flight load. Late results are dropped.
func (v *DetailView) Unmount() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mounted = false
	v.seq++
	v.tag = state.RequestTag{}
	v.sel = DefaultSelection()
	v.tab = TabDescription
}

func (v *DetailView) Mounted() bool { return v.mounted }

// ItemID is the id the page is showing or loading.
func (v *DetailView) ItemID() string { return v.tag.ID }

func (v *DetailView) load(id string) {
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	tag := state.RequestTag{ID: id, Seq: v.seq}
	v.tag = tag
	v.sel = DefaultSelection()
	v.tab = TabDescription

	ctx, cancel := context.WithCancel(v.base)
	v.cancel = cancel

	v.logger.Debug("loading product", zap.String("product_id", id), zap.Uint64("seq", tag.Seq))
	v.store.Dispatch(state.LoadRequested{Tag: tag})

	go func() {
		it, err := v.loader.LoadItemDetail(ctx, id)
		v.loop.Post(func() { v.resolve(tag, it, err) })
	}()
}

func (v *DetailView) resolve(tag state.RequestTag, it model.CatalogItem, err error) {
	if !v.mounted || tag != v.tag {
		v.logger.Debug("discarding stale product load",
			zap.String("product_id", tag.ID), zap.Uint64("seq", tag.Seq),
			zap.String("current_id", v.tag.ID))
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if err != nil {
		v.logger.Info("product load failed", zap.String("product_id", tag.ID), zap.Error(err))
		v.store.Dispatch(state.LoadFailed{Tag: tag, Reason: err.Error()})
		return
	}
	v.store.Dispatch(state.LoadSucceeded{Tag: tag, Item: it})
}

// item is the loaded record for the current request, if there is one.
func (v *DetailView) item() (model.CatalogItem, bool) {
	if !v.mounted {
		return model.CatalogItem{}, false
	}
	d := v.store.Snapshot().Detail
	if d.Tag != v.tag {
		return model.CatalogItem{}, false
	}
	return d.Loaded()
}

// Selection returns the current choice.
func (v *DetailView) Selection() Selection { return v.sel }

func (v *DetailView) ActiveTab() Tab { return v.tab }

// SelectSize picks size if the loaded item offers it. It reports whether
// the selection was applied.
func (v *DetailView) SelectSize(size string) bool {
	it, ok := v.item()
	if !ok || !it.HasSize(size) {
		return false
	}
	v.sel.Size = size
	return true
}

func (v *DetailView) SelectColor(color string) bool {
	it, ok := v.item()
	if !ok || !it.HasColor(color) {
		return false
	}
	v.sel.Color = color
	return true
}

func (v *DetailView) IncrementQuantity() bool {
	if _, ok := v.item(); !ok {
		return false
	}
	v.sel.Quantity++
	return true
}

// DecrementQuantity never takes the quantity below 1.
func (v *DetailView) DecrementQuantity() bool {
	if _, ok := v.item(); !ok || v.sel.Quantity <= 1 {
		return false
	}
	v.sel.Quantity--
	return true
}

// AddToCart dispatches the current selection. Pricing is left to the
// backend.
func (v *DetailView) AddToCart() bool {
	it, ok := v.item()
	if !ok {
		return false
	}
	v.store.Dispatch(model.NewCartLineIntent(it, v.sel.Quantity, v.sel.Size, v.sel.Color))
	return true
}

func (v *DetailView) AddToWishlist() bool {
	it, ok := v.item()
	if !ok {
		return false
	}
	v.store.Dispatch(model.NewWishlistIntent(it.ID))
	return true
}

// SelectTab activates t, which deactivates every other tab.
func (v *DetailView) SelectTab(t Tab) bool {
	if !t.Valid() {
		return false
	}
	if _, ok := v.item(); !ok {
		return false
	}
	v.tab = t
	return true
}

// Render builds the model for the current state.
func (v *DetailView) Render() DetailModel {
	snap := v.store.Snapshot()
	m := DetailModel{ID: v.tag.ID}
	if !v.mounted {
		m.Phase = state.PhaseIdle
		return m
	}
	d := snap.Detail
	if d.Tag != v.tag {
		// the store has not seen this request yet
		m.Phase = state.PhaseLoading
		return m
	}
	m.Phase = d.Phase
	switch d.Phase {
	case state.PhaseFailed:
		m.Reason = d.Reason
		if m.Reason == "" {
			m.Reason = "failed to load product"
		}
		return m
	case state.PhaseLoaded:
	default:
		return m
	}

	it := d.Item
	m.Name = it.Name
	if len(it.Images) > 0 && it.Images[0] != "" {
		m.MainImage = it.Images[0]
		m.Thumbnails = append([]string(nil), it.Images...)
	} else {
		m.MainImage = PlaceholderImage
		m.Placeholder = true
	}
	m.Stars = Stars(it.Rating)
	m.ReviewCount = it.NumReviews
	m.Price = detailPriceOf(it)
	m.ShortDescription = it.ShortDescription
	m.Sizes = options(it.Sizes, v.sel.Size)
	m.Colors = options(it.Colors, v.sel.Color)
	m.Quantity = v.sel.Quantity
	m.DecrementDisabled = v.sel.Quantity <= 1
	m.InWishlist = snap.InWishlist(it.ID)

	m.ActiveTab = v.tab
	for _, t := range AllTabs() {
		m.Tabs = append(m.Tabs, TabModel{Tab: t, Label: t.String(), Active: t == v.tab})
	}
	if v.tab == TabDescription {
		m.Panel = it.Description
	}
	m.Delivery = Delivery
	return m
}

func options(values []string, selected string) []OptionModel {
	out := make([]OptionModel, 0, len(values))
	for _, val := range values {
		out = append(out, OptionModel{Value: val, Selected: val == selected})
	}
	return out
}
