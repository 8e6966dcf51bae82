// Package memory keeps products in a process-local concurrent keyed map and
// evaluates specifications in memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"catalog-service/internal/domain"
	"catalog-service/internal/specification"
	"catalog-service/pkg/cache"
	"catalog-service/pkg/logger"
)

// record pairs a product with the sequence number of its first save. The
// sequence breaks ties between equal sort keys and is the default order.
type record struct {
	product domain.Product
	seq     int64
}

type productRepository struct {
	store cache.CacheService
	seq   atomic.Int64
}

// NewProductRepository stores products in the given store. The store must
// not expire entries.
func NewProductRepository(store cache.CacheService) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, nil
	}
	rec, ok := v.(record)
	if !ok {
		return nil, nil
	}
	p := rec.product
	return &p, nil
}

func (r *productRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	rec := record{product: product, seq: r.seq.Add(1)}
	for {
		if err := r.store.Add(product.ID(), rec, cache.NoExpiration); err == nil {
			return product, nil
		}
		// Existing entry: overwrite fields, keep its position.
		if v, ok := r.store.Get(product.ID()); ok {
			if prev, ok := v.(record); ok {
				rec.seq = prev.seq
			}
			r.store.Set(product.ID(), rec, cache.NoExpiration)
			return product, nil
		}
		// Deleted between Add and Get; retry the insert.
	}
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.store.Delete(id)
	return nil
}

func (r *productRepository) GetAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, int64, error) {
	skip, take := specification.PageWindow(pageNumber, pageSize)
	recs := r.snapshot()
	lo, hi := specification.Window(len(recs), skip, take)
	return products(recs[lo:hi]), int64(len(recs)), nil
}

func (r *productRepository) GetBySpecification(ctx context.Context, spec domain.ProductSpec) ([]domain.Product, error) {
	recs, err := evaluate(r.snapshot(), spec)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("memory: evaluate specification")
		return nil, err
	}
	return products(recs), nil
}

func (r *productRepository) GetBySpecificationWithPagination(ctx context.Context, spec domain.ProductSpec, pageNumber, pageSize int) ([]domain.Product, int64, error) {
	all := r.snapshot()
	total, err := count(all, spec.Criteria())
	if err != nil {
		return nil, 0, err
	}
	page, err := evaluate(all, spec.WithPage(pageNumber, pageSize))
	if err != nil {
		return nil, 0, err
	}
	return products(page), total, nil
}

func (r *productRepository) CountBySpecification(ctx context.Context, spec domain.ProductSpec) (int64, error) {
	return count(r.snapshot(), spec.Criteria())
}

// snapshot returns every record in insertion order.
func (r *productRepository) snapshot() []record {
	items := r.store.Items()
	recs := make([]record, 0, len(items))
	for _, v := range items {
		if rec, ok := v.(record); ok {
			recs = append(recs, rec)
		}
	}
	slices.SortFunc(recs, compareSeq)
	return recs
}

// evaluate applies criteria, then order, then the paging window.
func evaluate(recs []record, spec domain.ProductSpec) ([]record, error) {
	criteria := spec.Criteria()
	if err := checkFields(criteria.Fields()); err != nil {
		return nil, err
	}

	matched := make([]record, 0, len(recs))
	for _, rec := range recs {
		ok, err := specification.Match(criteria, rec.product)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	if field, desc, ok := spec.Sort(); ok {
		if err := checkFields([]specification.Field{field}); err != nil {
			return nil, err
		}
		var sortErr error
		slices.SortStableFunc(matched, func(a, b record) int {
			av, _ := a.product.FieldValue(field)
			bv, _ := b.product.FieldValue(field)
			c, err := av.Compare(bv)
			if err != nil {
				sortErr = err
				return 0
			}
			if desc {
				c = -c
			}
			if c != 0 {
				return c
			}
			return compareSeq(a, b)
		})
		if sortErr != nil {
			return nil, sortErr
		}
	}

	if spec.IsPagingEnabled() {
		lo, hi := specification.Window(len(matched), spec.Skip(), spec.Take())
		matched = matched[lo:hi]
	}
	return matched, nil
}

// count tallies criteria matches without building the matched slice.
func count(recs []record, criteria specification.Criteria) (int64, error) {
	if err := checkFields(criteria.Fields()); err != nil {
		return 0, err
	}
	var n int64
	for _, rec := range recs {
		ok, err := specification.Match(criteria, rec.product)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

var zeroProduct domain.Product

func checkFields(fields []specification.Field) error {
	for _, f := range fields {
		if _, ok := zeroProduct.FieldValue(f); !ok {
			return fmt.Errorf("%w: %s", specification.ErrUnknownField, f)
		}
	}
	return nil
}

func compareSeq(a, b record) int {
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

func products(recs []record) []domain.Product {
	out := make([]domain.Product, len(recs))
	for i, rec := range recs {
		out[i] = rec.product
	}
	return out
}
