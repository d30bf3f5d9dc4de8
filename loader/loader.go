// Package loader fetches product detail records for the views and checks
// them against the CatalogItem schema before they reach any view.
package loader

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/go-coder/storefront/model"
)

// Loader resolves exactly once per call with either a valid item or an
// error.
type Loader interface {
	LoadItemDetail(ctx context.Context, id string) (model.CatalogItem, error)
}

type Func func(ctx context.Context, id string) (model.CatalogItem, error)

func (f Func) LoadItemDetail(ctx context.Context, id string) (model.CatalogItem, error) {
	return f(ctx, id)
}

// ProductSource is the raw catalog backend, typically *apiclient.Client.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (model.CatalogItem, error)
}

// Validating loads from a ProductSource and rejects records that do not
// satisfy the schema.
type Validating struct {
	src     ProductSource
	timeout time.Duration
	logger  *zap.Logger
}

func New(src ProductSource, timeout time.Duration, logger *zap.Logger) *Validating {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validating{src: src, timeout: timeout, logger: logger}
}

func (l *Validating) LoadItemDetail(ctx context.Context, id string) (model.CatalogItem, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	it, err := l.src.GetProduct(ctx, id)
	if err != nil {
		l.logger.Debug("product load failed", zap.String("product_id", id), zap.Error(err))
		return model.CatalogItem{}, fmt.Errorf("load product %s: %w", id, err)
	}

	it = it.Normalized()
	if it.ID != id {
		return model.CatalogItem{}, fmt.Errorf("%w: asked for %q, got %q", model.ErrInvalidItem, id, it.ID)
	}
	if err := it.Validate(); err != nil {
		l.logger.Warn("backend returned invalid product", zap.String("product_id", id), zap.Error(err))
		return model.CatalogItem{}, err
	}
	l.logger.Debug("product loaded", zap.String("product_id", id), zap.Duration("took", time.Since(start)))
	return it, nil
}

// Coalescing shares one in-flight load between concurrent callers asking
// for the same id. A caller that gives up does not cancel the shared load
// for the others.
type Coalescing struct {
	next  Loader
	group singleflight.Group
}

func NewCoalescing(next Loader) *Coalescing {
	return &Coalescing{next: next}
}

func (c *Coalescing) LoadItemDetail(ctx context.Context, id string) (model.CatalogItem, error) {
	ch := c.group.DoChan(id, func() (any, error) {
		return c.next.LoadItemDetail(context.WithoutCancel(ctx), id)
	})
	select {
	case <-ctx.Done():
		return model.CatalogItem{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.CatalogItem{}, res.Err
		}
		return res.Val.(model.CatalogItem), nil
	}
}
