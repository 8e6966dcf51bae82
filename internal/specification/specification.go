// Package specification describes queries over a single entity type as
// values: filter criteria, one sort key and an optional paging window.
// Repositories interpret a Specification against their own backing store.
package specification

import (
	"errors"
	"fmt"
)

var (
	ErrConflictingOrder = errors.New("specification: both ascending and descending order set")
	ErrInvalidPaging    = errors.New("specification: invalid paging window")
)

// Specification is immutable once built. The type parameter ties a
// specification to the entity it was written for.
type Specification[T any] struct {
	criteria Criteria

	orderField Field
	hasOrder   bool
	descending bool

	paging bool
	skip   int
	take   int
}

type builder struct {
	criteria Criteria
	asc      []Field
	desc     []Field
	paged    bool
	skip     int
	take     int
}

// Option configures a Specification under construction.
type Option func(*builder)

// Where adds every clause as its own conjunct.
func Where(clauses ...Clause) Option {
	return func(b *builder) {
		for _, c := range clauses {
			b.criteria = append(b.criteria, Group{c})
		}
	}
}

// WhereAny adds a single conjunct that holds when any clause holds.
func WhereAny(clauses ...Clause) Option {
	return func(b *builder) {
		if len(clauses) == 0 {
			return
		}
		b.criteria = append(b.criteria, append(Group(nil), clauses...))
	}
}

func OrderBy(f Field) Option {
	return func(b *builder) { b.asc = append(b.asc, f) }
}

func OrderByDescending(f Field) Option {
	return func(b *builder) { b.desc = append(b.desc, f) }
}

// Paged enables paging: skip is the 0-based offset, take the maximum count.
func Paged(skip, take int) Option {
	return func(b *builder) {
		b.paged = true
		b.skip = skip
		b.take = take
	}
}

// Build assembles a Specification, reporting construction mistakes.
func Build[T any](opts ...Option) (Specification[T], error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	if len(b.asc)+len(b.desc) > 1 {
		return Specification[T]{}, ErrConflictingOrder
	}
	if b.paged && (b.skip < 0 || b.take < 0) {
		return Specification[T]{}, fmt.Errorf("%w: skip=%d take=%d", ErrInvalidPaging, b.skip, b.take)
	}

	s := Specification[T]{
		criteria: b.criteria,
		paging:   b.paged,
		skip:     b.skip,
		take:     b.take,
	}
	switch {
	case len(b.asc) == 1:
		s.orderField, s.hasOrder = b.asc[0], true
	case len(b.desc) == 1:
		s.orderField, s.hasOrder, s.descending = b.desc[0], true, true
	}
	return s, nil
}

// New is Build for specifications written in code; it panics on a
// construction mistake.
func New[T any](opts ...Option) Specification[T] {
	s, err := Build[T](opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Criteria returns a copy of the filter. Empty means match all.
func (s Specification[T]) Criteria() Criteria {
	if s.criteria == nil {
		return nil
	}
	out := make(Criteria, len(s.criteria))
	for i, g := range s.criteria {
		out[i] = append(Group(nil), g...)
	}
	return out
}

func (s Specification[T]) OrderBy() (Field, bool) {
	if s.hasOrder && !s.descending {
		return s.orderField, true
	}
	return "", false
}

func (s Specification[T]) OrderByDescending() (Field, bool) {
	if s.hasOrder && s.descending {
		return s.orderField, true
	}
	return "", false
}

// Sort returns the single sort key and its direction, if any.
func (s Specification[T]) Sort() (field Field, descending bool, ok bool) {
	return s.orderField, s.descending, s.hasOrder
}

func (s Specification[T]) IsPagingEnabled() bool { return s.paging }

// Skip and Take are meaningful only when IsPagingEnabled is true.
func (s Specification[T]) Skip() int { return s.skip }
func (s Specification[T]) Take() int { return s.take }

// WithPage returns a copy with the same criteria and order and the paging
// window replaced by the given 1-based page.
func (s Specification[T]) WithPage(pageNumber, pageSize int) Specification[T] {
	out := s
	out.criteria = s.Criteria()
	out.paging = true
	out.skip, out.take = PageWindow(pageNumber, pageSize)
	return out
}

// PageWindow converts a 1-based page into a skip/take pair. Page numbers
// below 1 are treated as 1 and negative sizes as 0.
func PageWindow(pageNumber, pageSize int) (skip, take int) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return (pageNumber - 1) * pageSize, pageSize
}

// Window applies a paging window to n items, returning the [lo, hi) bounds.
func Window(n, skip, take int) (lo, hi int) {
	if skip >= n {
		return n, n
	}
	hi = skip + take
	if hi > n || hi < skip {
		hi = n
	}
	return skip, hi
}
