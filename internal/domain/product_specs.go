package domain

import (
	"catalog-service/internal/specification"

	"github.com/shopspring/decimal"
)

// Catalog defaults. Callers are expected to pass explicit values; these
// only back the HTTP query parameters when they are omitted.
var (
	DefaultExpensiveThreshold = decimal.NewFromInt(1000)
	DefaultLightweightMax     = decimal.NewFromInt(5)
	DefaultAffordableMaxPrice = decimal.NewFromInt(500)
)

// ProductsByPriceRange matches min <= price <= max, cheapest first.
func ProductsByPriceRange(min, max decimal.Decimal) ProductSpec {
	return specification.New[Product](
		specification.Where(
			specification.Gte(FieldPrice, specification.Decimal(min)),
			specification.Lte(FieldPrice, specification.Decimal(max)),
		),
		specification.OrderBy(FieldPrice),
	)
}

// ProductsByWeightRange matches min <= weight <= max, lightest first.
func ProductsByWeightRange(min, max decimal.Decimal) ProductSpec {
	return specification.New[Product](
		specification.Where(
			specification.Gte(FieldWeight, specification.Decimal(min)),
			specification.Lte(FieldWeight, specification.Decimal(max)),
		),
		specification.OrderBy(FieldWeight),
	)
}

// ProductsByNameOrDescription matches a case-insensitive substring of the
// name or the description, ordered by name.
func ProductsByNameOrDescription(term string) ProductSpec {
	return specification.New[Product](
		specification.WhereAny(
			specification.Contains(FieldName, term),
			specification.Contains(FieldDescription, term),
		),
		specification.OrderBy(FieldName),
	)
}

// ExpensiveProducts matches price >= threshold, most expensive first.
func ExpensiveProducts(threshold decimal.Decimal) ProductSpec {
	return specification.New[Product](
		specification.Where(specification.Gte(FieldPrice, specification.Decimal(threshold))),
		specification.OrderByDescending(FieldPrice),
	)
}

func LightweightProducts(maxWeight decimal.Decimal) ProductSpec {
	return specification.New[Product](
		specification.Where(specification.Lte(FieldWeight, specification.Decimal(maxWeight))),
		specification.OrderBy(FieldWeight),
	)
}

func AffordableAndLightweightProducts(maxPrice, maxWeight decimal.Decimal) ProductSpec {
	return specification.New[Product](
		specification.Where(
			specification.Lte(FieldPrice, specification.Decimal(maxPrice)),
			specification.Lte(FieldWeight, specification.Decimal(maxWeight)),
		),
		specification.OrderBy(FieldPrice),
	)
}

// ProductsWithPagination matches everything, ordered by name, one page at a time.
func ProductsWithPagination(pageNumber, pageSize int) ProductSpec {
	skip, take := specification.PageWindow(pageNumber, pageSize)
	return specification.New[Product](
		specification.OrderBy(FieldName),
		specification.Paged(skip, take),
	)
}
