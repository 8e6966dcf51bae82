package usecase

import (
	"context"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// CreateProductInput carries the attributes of a new product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Weight      decimal.Decimal
}

type CatalogUsecase struct {
	repo    domain.ProductRepository
	timeout time.Duration
}

func NewCatalogUsecase(repo domain.ProductRepository, timeout time.Duration) *CatalogUsecase {
	return &CatalogUsecase{
		repo:    repo,
		timeout: timeout,
	}
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	product, err := domain.NewProduct(in.Name, in.Description, in.Price, in.Weight)
	if err != nil {
		return domain.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	saved, err := uc.repo.Save(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	logger.WithContext(ctx).Info().Str("product_id", saved.ID()).Msg("Product created")
	return saved, nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return *product, nil
}

// DeleteProduct removes a product, reporting ErrProductNotFound when the ID
// is unknown.
func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrProductNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithContext(ctx).Info().Str("product_id", id).Msg("Product deleted")
	return nil
}

// ListProducts pages through the whole catalog in insertion order.
func (uc *CatalogUsecase) ListProducts(ctx context.Context, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	if err := page.Validate(); err != nil {
		return domain.PagedResult[domain.Product]{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	items, total, err := uc.repo.GetAll(ctx, page.PageNumber, page.PageSize)
	if err != nil {
		return domain.PagedResult[domain.Product]{}, err
	}
	return domain.NewPagedResult(items, page.PageNumber, page.PageSize, total), nil
}

func (uc *CatalogUsecase) SearchProducts(ctx context.Context, term string, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	return uc.query(ctx, "search", domain.ProductsByNameOrDescription(term), page)
}

func (uc *CatalogUsecase) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	return uc.query(ctx, "price-range", domain.ProductsByPriceRange(min, max), page)
}

func (uc *CatalogUsecase) ProductsByWeightRange(ctx context.Context, min, max decimal.Decimal, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	return uc.query(ctx, "weight-range", domain.ProductsByWeightRange(min, max), page)
}

func (uc *CatalogUsecase) ExpensiveProducts(ctx context.Context, threshold decimal.Decimal, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	return uc.query(ctx, "expensive", domain.ExpensiveProducts(threshold), page)
}

func (uc *CatalogUsecase) LightweightProducts(ctx context.Context, maxWeight decimal.Decimal, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	return uc.query(ctx, "lightweight", domain.LightweightProducts(maxWeight), page)
}

func (uc *CatalogUsecase) AffordableAndLightweightProducts(ctx context.Context, maxPrice, maxWeight decimal.Decimal, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	return uc.query(ctx, "affordable-lightweight", domain.AffordableAndLightweightProducts(maxPrice, maxWeight), page)
}

func (uc *CatalogUsecase) query(ctx context.Context, name string, spec domain.ProductSpec, page domain.PageRequest) (domain.PagedResult[domain.Product], error) {
	if err := page.Validate(); err != nil {
		return domain.PagedResult[domain.Product]{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := time.Now()
	items, total, err := uc.repo.GetBySpecificationWithPagination(ctx, spec, page.PageNumber, page.PageSize)
	if err != nil {
		return domain.PagedResult[domain.Product]{}, err
	}

	logger.WithContext(ctx).Debug().
		Str("query", name).
		Int("page", page.PageNumber).
		Int("size", page.PageSize).
		Int64("total", total).
		Dur("duration_ms", time.Since(start)).
		Msg("Catalog query")

	return domain.NewPagedResult(items, page.PageNumber, page.PageSize, total), nil
}
