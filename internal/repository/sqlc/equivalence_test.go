package sqlcrepo

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"catalog-service/internal/domain"
	infracache "catalog-service/internal/infrastructure/cache"
	"catalog-service/internal/repository/memory"
	"catalog-service/internal/repository/repotest"
	"catalog-service/internal/specification"
	"catalog-service/pkg/cache"

	"github.com/shopspring/decimal"
)

var words = []string{"lamp", "Desk", "chair", "OAK", "steel", "Blue", "green", "mini", "Pro", "kit"}

// seedBoth writes the same products, in the same order, to both stores.
func seedBoth(t *testing.T, n int, stores ...domain.ProductRepository) {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		name := words[rng.Intn(len(words))] + " " + words[rng.Intn(len(words))]
		desc := fmt.Sprintf("%s item %d", words[rng.Intn(len(words))], i%7)
		// Coarse values so equal sort keys are common.
		price := decimal.New(int64(rng.Intn(40))*250, -2).Mul(decimal.NewFromInt(int64(1 + rng.Intn(4))))
		weight := decimal.New(int64(rng.Intn(160)), -1).Div(decimal.NewFromInt(2)).Round(2)

		p, err := domain.NewProduct(name, desc, price, weight)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range stores {
			repotest.MustSave(t, s, p)
		}
	}
}

func TestEvaluatorsAgree(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewProductRepository(infracache.NewMemoryCache(cache.NoExpiration, 0))
	sql := newSQLiteRepo(t)
	seedBoth(t, 120, mem, sql)

	d := repotest.Dec
	specs := map[string]domain.ProductSpec{
		"price range":            domain.ProductsByPriceRange(d("50"), d("200")),
		"price range empty":      domain.ProductsByPriceRange(d("200"), d("50")),
		"weight range":           domain.ProductsByWeightRange(d("3"), d("20")),
		"name or description":    domain.ProductsByNameOrDescription("LAMP"),
		"description digit":      domain.ProductsByNameOrDescription("item 3"),
		"expensive default":      domain.ExpensiveProducts(domain.DefaultExpensiveThreshold),
		"expensive low":          domain.ExpensiveProducts(d("100")),
		"lightweight":            domain.LightweightProducts(domain.DefaultLightweightMax),
		"affordable lightweight": domain.AffordableAndLightweightProducts(domain.DefaultAffordableMaxPrice, domain.DefaultLightweightMax),
		"pagination first":       domain.ProductsWithPagination(1, 10),
		"pagination middle":      domain.ProductsWithPagination(4, 13),
		"pagination past end":    domain.ProductsWithPagination(50, 10),
		"unordered filter":       specification.New[domain.Product](specification.Where(specification.Lt(domain.FieldWeight, specification.Decimal(d("10"))))),
		"descending name, paged": specification.New[domain.Product](specification.OrderByDescending(domain.FieldName), specification.Paged(5, 20)),
		"exact price":            specification.New[domain.Product](specification.Where(specification.Eq(domain.FieldPrice, specification.Decimal(d("5")))), specification.OrderBy(domain.FieldWeight)),
		"name greater than":      specification.New[domain.Product](specification.Where(specification.Gt(domain.FieldName, specification.Text("chair"))), specification.OrderBy(domain.FieldDescription)),
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			want, err := mem.GetBySpecification(ctx, spec)
			if err != nil {
				t.Fatal(err)
			}
			got, err := sql.GetBySpecification(ctx, spec)
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(repotest.IDs(got)) != fmt.Sprint(repotest.IDs(want)) {
				t.Fatalf("order differs\nmemory: %v\nsql:    %v", repotest.Names(want), repotest.Names(got))
			}

			wantN, _ := mem.CountBySpecification(ctx, spec)
			gotN, err := sql.CountBySpecification(ctx, spec)
			if err != nil {
				t.Fatal(err)
			}
			if gotN != wantN {
				t.Fatalf("count: memory %d, sql %d", wantN, gotN)
			}

			for _, page := range [][2]int{{1, 7}, {2, 7}, {3, 25}} {
				wantItems, wantTotal, _ := mem.GetBySpecificationWithPagination(ctx, spec, page[0], page[1])
				gotItems, gotTotal, err := sql.GetBySpecificationWithPagination(ctx, spec, page[0], page[1])
				if err != nil {
					t.Fatal(err)
				}
				if gotTotal != wantTotal || fmt.Sprint(repotest.IDs(gotItems)) != fmt.Sprint(repotest.IDs(wantItems)) {
					t.Fatalf("page %v differs: totals %d/%d", page, wantTotal, gotTotal)
				}
			}
		})
	}
}
