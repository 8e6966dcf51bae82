package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-service/internal/domain"
	infracache "catalog-service/internal/infrastructure/cache"
	"catalog-service/internal/repository/memory"
	"catalog-service/internal/repository/repotest"
	"catalog-service/pkg/cache"
)

func newUsecase(t *testing.T) (*CatalogUsecase, domain.ProductRepository) {
	t.Helper()
	repo := memory.NewProductRepository(infracache.NewMemoryCache(cache.NoExpiration, 0))
	return NewCatalogUsecase(repo, time.Second), repo
}

func input(name, price, weight string) CreateProductInput {
	return CreateProductInput{
		Name:        name,
		Description: name + " description",
		Price:       repotest.Dec(price),
		Weight:      repotest.Dec(weight),
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateProduct(ctx, input("Lamp", "49.99", "1.2"))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID() == "" {
		t.Fatal("created product has no ID")
	}

	got, err := uc.GetProduct(ctx, created.ID())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(created) {
		t.Fatalf("GetProduct = %+v, want %+v", got, created)
	}
}

func TestCreateProductRejectsInvalidInput(t *testing.T) {
	uc, repo := newUsecase(t)

	_, err := uc.CreateProduct(context.Background(), input("Anvil", "10", "81"))
	if !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("err = %v, want ErrInvalidProduct", err)
	}
	if err.Error() != "Weight cannot exceed 80kg" {
		t.Fatalf("message = %q", err.Error())
	}

	n, _ := repo.CountBySpecification(context.Background(), domain.ProductsWithPagination(1, 10))
	if n != 0 {
		t.Fatalf("invalid product was stored")
	}
}

func TestGetProductNotFound(t *testing.T) {
	uc, _ := newUsecase(t)
	if _, err := uc.GetProduct(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, input("Chair", "80", "7"))
	if err != nil {
		t.Fatal(err)
	}
	if err := uc.DeleteProduct(ctx, p.ID()); err != nil {
		t.Fatal(err)
	}
	if err := uc.DeleteProduct(ctx, p.ID()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestListProducts(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		if _, err := uc.CreateProduct(ctx, input(n, "1", "1")); err != nil {
			t.Fatal(err)
		}
	}

	page, err := uc.ListProducts(ctx, domain.PageRequest{PageNumber: 2, PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := repotest.Names(page.Items); len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("page 2 = %v, want [c d]", got)
	}
	if page.TotalCount != 5 || page.TotalPages() != 3 || !page.HasPreviousPage() || !page.HasNextPage() {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
}

func TestInvalidPageRequest(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	for _, page := range []domain.PageRequest{
		{PageNumber: 0, PageSize: 10},
		{PageNumber: 1, PageSize: 0},
		{PageNumber: 1, PageSize: 101},
	} {
		if _, err := uc.ListProducts(ctx, page); !errors.Is(err, domain.ErrInvalidPage) {
			t.Errorf("ListProducts(%+v) err = %v", page, err)
		}
		if _, err := uc.SearchProducts(ctx, "x", page); !errors.Is(err, domain.ErrInvalidPage) {
			t.Errorf("SearchProducts(%+v) err = %v", page, err)
		}
	}
}

func TestCatalogQueries(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()
	for _, in := range []CreateProductInput{
		input("Budget Lamp", "50", "2"),
		input("Desk", "500", "30"),
		input("Sofa", "1500", "60"),
		input("Piano", "3000", "79"),
		input("Pen", "5", "0.1"),
	} {
		if _, err := uc.CreateProduct(ctx, in); err != nil {
			t.Fatal(err)
		}
	}
	page := domain.DefaultPageRequest()
	d := repotest.Dec

	tests := []struct {
		name  string
		run   func() (domain.PagedResult[domain.Product], error)
		names []string
	}{
		{"price range", func() (domain.PagedResult[domain.Product], error) {
			return uc.ProductsByPriceRange(ctx, d("400"), d("1000"), page)
		}, []string{"Desk"}},
		{"weight range", func() (domain.PagedResult[domain.Product], error) {
			return uc.ProductsByWeightRange(ctx, d("1"), d("60"), page)
		}, []string{"Budget Lamp", "Desk", "Sofa"}},
		{"search", func() (domain.PagedResult[domain.Product], error) {
			return uc.SearchProducts(ctx, "LAMP", page)
		}, []string{"Budget Lamp"}},
		{"expensive", func() (domain.PagedResult[domain.Product], error) {
			return uc.ExpensiveProducts(ctx, domain.DefaultExpensiveThreshold, page)
		}, []string{"Piano", "Sofa"}},
		{"lightweight", func() (domain.PagedResult[domain.Product], error) {
			return uc.LightweightProducts(ctx, domain.DefaultLightweightMax, page)
		}, []string{"Pen", "Budget Lamp"}},
		{"affordable lightweight", func() (domain.PagedResult[domain.Product], error) {
			return uc.AffordableAndLightweightProducts(ctx, d("40"), d("5"), page)
		}, []string{"Pen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			if err != nil {
				t.Fatal(err)
			}
			got := repotest.Names(res.Items)
			if len(got) != len(tt.names) {
				t.Fatalf("got %v, want %v", got, tt.names)
			}
			for i := range got {
				if got[i] != tt.names[i] {
					t.Fatalf("got %v, want %v", got, tt.names)
				}
			}
			if res.TotalCount != int64(len(tt.names)) {
				t.Fatalf("TotalCount = %d", res.TotalCount)
			}
		})
	}
}

type failingRepo struct {
	domain.ProductRepository
	err error
}

func (r failingRepo) GetBySpecificationWithPagination(context.Context, domain.ProductSpec, int, int) ([]domain.Product, int64, error) {
	return nil, 0, r.err
}

func (r failingRepo) GetByID(context.Context, string) (*domain.Product, error) {
	return nil, r.err
}

func TestStorageErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	uc := NewCatalogUsecase(failingRepo{err: boom}, time.Second)
	ctx := context.Background()

	if _, err := uc.ExpensiveProducts(ctx, domain.DefaultExpensiveThreshold, domain.DefaultPageRequest()); !errors.Is(err, boom) {
		t.Fatalf("query err = %v", err)
	}
	if _, err := uc.GetProduct(ctx, "x"); !errors.Is(err, boom) {
		t.Fatalf("get err = %v", err)
	}
}
