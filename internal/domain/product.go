package domain

import (
	"context"
	"strings"

	"catalog-service/internal/specification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product bounds
const (
	MaxProductPrice  = 10000
	MaxProductWeight = 80
)

// Product fields addressable by specifications
const (
	FieldName        specification.Field = "name"
	FieldDescription specification.Field = "description"
	FieldPrice       specification.Field = "price"
	FieldWeight      specification.Field = "weight"
)

var (
	maxPrice  = decimal.NewFromInt(MaxProductPrice)
	maxWeight = decimal.NewFromInt(MaxProductWeight)
)

// Product is a validated catalog item. The zero value is not a valid
// product; instances come only from NewProduct or RestoreProduct.
type Product struct {
	id          string
	name        string
	description string
	price       decimal.Decimal
	weight      decimal.Decimal
}

// NewProduct validates the attributes and assigns a fresh ID.
func NewProduct(name, description string, price, weight decimal.Decimal) (Product, error) {
	return RestoreProduct(uuid.NewString(), name, description, price, weight)
}

// RestoreProduct rebuilds a product with a known ID, e.g. from storage.
func RestoreProduct(id, name, description string, price, weight decimal.Decimal) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, &RequiredFieldError{Field: "id", Message: "ID is required"}
	}
	if strings.TrimSpace(name) == "" {
		return Product{}, &RequiredFieldError{Field: "name", Message: "Name is required"}
	}
	if strings.TrimSpace(description) == "" {
		return Product{}, &RequiredFieldError{Field: "description", Message: "Description is required"}
	}
	if price.IsNegative() {
		return Product{}, &ValidationError{Field: "price", Message: "Price cannot be negative"}
	}
	if price.GreaterThan(maxPrice) {
		return Product{}, &ValidationError{Field: "price", Message: "Price cannot exceed $10000"}
	}
	if weight.IsNegative() {
		return Product{}, &ValidationError{Field: "weight", Message: "Weight cannot be negative"}
	}
	if weight.GreaterThan(maxWeight) {
		return Product{}, &ValidationError{Field: "weight", Message: "Weight cannot exceed 80kg"}
	}

	return Product{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		weight:      weight,
	}, nil
}

func (p Product) ID() string              { return p.id }
func (p Product) Name() string            { return p.name }
func (p Product) Description() string     { return p.description }
func (p Product) Price() decimal.Decimal  { return p.price }
func (p Product) Weight() decimal.Decimal { return p.weight }

// Equal compares field values; decimals are compared numerically.
func (p Product) Equal(o Product) bool {
	return p.id == o.id &&
		p.name == o.name &&
		p.description == o.description &&
		p.price.Equal(o.price) &&
		p.weight.Equal(o.weight)
}

// FieldValue exposes product attributes to in-memory specification evaluation.
func (p Product) FieldValue(f specification.Field) (specification.Value, bool) {
	switch f {
	case FieldName:
		return specification.Text(p.name), true
	case FieldDescription:
		return specification.Text(p.description), true
	case FieldPrice:
		return specification.Decimal(p.price), true
	case FieldWeight:
		return specification.Decimal(p.weight), true
	}
	return specification.Value{}, false
}

// ProductSpec is a specification over products.
type ProductSpec = specification.Specification[Product]

// --- Interfaces ---

// ProductRepository is implemented by the in-process and the persisted
// stores. Not-found is never an error: lookups return nil, queries return
// empty slices.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	// Save inserts or overwrites by ID and echoes the product back.
	Save(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id string) error

	// GetAll lists products in insertion order; pageNumber is 1-based.
	GetAll(ctx context.Context, pageNumber, pageSize int) ([]Product, int64, error)
	GetBySpecification(ctx context.Context, spec ProductSpec) ([]Product, error)
	// GetBySpecificationWithPagination keeps the criteria and order of spec
	// and replaces its paging with the given page. The count ignores paging.
	GetBySpecificationWithPagination(ctx context.Context, spec ProductSpec, pageNumber, pageSize int) ([]Product, int64, error)
	CountBySpecification(ctx context.Context, spec ProductSpec) (int64, error)
}
