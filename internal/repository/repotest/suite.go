// Package repotest holds the behaviour every domain.ProductRepository must
// share. Backends run the suite from their own tests.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"catalog-service/internal/domain"
	"catalog-service/internal/specification"

	"github.com/shopspring/decimal"
)

// Factory returns an empty repository.
type Factory func(t *testing.T) domain.ProductRepository

func Dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// MustProduct builds a valid product or fails the test.
func MustProduct(t *testing.T, name, description, price, weight string) domain.Product {
	t.Helper()
	p, err := domain.NewProduct(name, description, Dec(price), Dec(weight))
	if err != nil {
		t.Fatalf("NewProduct(%q): %v", name, err)
	}
	return p
}

// MustSave saves every product in order.
func MustSave(t *testing.T, repo domain.ProductRepository, products ...domain.Product) {
	t.Helper()
	for _, p := range products {
		if _, err := repo.Save(context.Background(), p); err != nil {
			t.Fatalf("Save(%s): %v", p.Name(), err)
		}
	}
}

// IDs lists product IDs in order.
func IDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID()
	}
	return ids
}

func Names(products []domain.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name()
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Run executes the full suite against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("GetByIDMissing", func(t *testing.T) { testGetByIDMissing(t, newRepo(t)) })
	t.Run("SaveAndGet", func(t *testing.T) { testSaveAndGet(t, newRepo(t)) })
	t.Run("SaveIsUpsert", func(t *testing.T) { testSaveIsUpsert(t, newRepo(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newRepo(t)) })
	t.Run("PriceRange", func(t *testing.T) { testPriceRange(t, newRepo(t)) })
	t.Run("WeightRange", func(t *testing.T) { testWeightRange(t, newRepo(t)) })
	t.Run("NameOrDescription", func(t *testing.T) { testNameOrDescription(t, newRepo(t)) })
	t.Run("Expensive", func(t *testing.T) { testExpensive(t, newRepo(t)) })
	t.Run("AffordableAndLightweight", func(t *testing.T) { testAffordableAndLightweight(t, newRepo(t)) })
	t.Run("GetAllPaging", func(t *testing.T) { testGetAllPaging(t, newRepo(t)) })
	t.Run("GetAllEmpty", func(t *testing.T) { testGetAllEmpty(t, newRepo(t)) })
	t.Run("SpecificationPaging", func(t *testing.T) { testSpecificationPaging(t, newRepo(t)) })
	t.Run("ExplicitPageOverridesSpec", func(t *testing.T) { testExplicitPageOverridesSpec(t, newRepo(t)) })
	t.Run("TiesKeepInsertionOrder", func(t *testing.T) { testTiesKeepInsertionOrder(t, newRepo(t)) })
	t.Run("Count", func(t *testing.T) { testCount(t, newRepo(t)) })
	t.Run("UnknownField", func(t *testing.T) { testUnknownField(t, newRepo(t)) })
	t.Run("ConcurrentSaves", func(t *testing.T) { testConcurrentSaves(t, newRepo(t)) })
}

func testGetByIDMissing(t *testing.T, repo domain.ProductRepository) {
	got, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %v", got.Name())
	}
}

func testSaveAndGet(t *testing.T, repo domain.ProductRepository) {
	ctx := context.Background()
	p := MustProduct(t, "Lamp", "Desk lamp", "49.99", "1.25")

	saved, err := repo.Save(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if !saved.Equal(p) {
		t.Fatal("Save should echo the product")
	}

	got, err := repo.GetByID(ctx, p.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || !got.Equal(p) {
		t.Fatalf("GetByID returned %+v", got)
	}
}

func testSaveIsUpsert(t *testing.T, repo domain.ProductRepository) {
	ctx := context.Background()
	first := MustProduct(t, "Chair", "Wooden", "80", "7")
	other := MustProduct(t, "Table", "Wooden", "200", "30")
	MustSave(t, repo, first, other)

	updated, err := domain.RestoreProduct(first.ID(), "Chair v2", "Steel", Dec("95.5"), Dec("6"))
	if err != nil {
		t.Fatal(err)
	}
	MustSave(t, repo, updated, updated)

	items, total, err := repo.GetAll(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 records, got total=%d len=%d", total, len(items))
	}
	if !items[0].Equal(updated) {
		t.Errorf("upsert should keep position and take the last write, got %q", items[0].Name())
	}

	got, _ := repo.GetByID(ctx, first.ID())
	if got == nil || !got.Equal(updated) {
		t.Fatalf("GetByID after upsert = %+v", got)
	}
}

func testDelete(t *testing.T, repo domain.ProductRepository) {
	ctx := context.Background()
	p := MustProduct(t, "Mug", "Ceramic", "9", "0.3")
	MustSave(t, repo, p)

	if err := repo.Delete(ctx, p.ID()); err != nil {
		t.Fatal(err)
	}
	if got, _ := repo.GetByID(ctx, p.ID()); got != nil {
		t.Fatal("product still present after Delete")
	}
	if err := repo.Delete(ctx, p.ID()); err != nil {
		t.Fatalf("deleting a missing product should not fail: %v", err)
	}
}

func testPriceRange(t *testing.T, repo domain.ProductRepository) {
	p50 := MustProduct(t, "A", "a", "50", "1")
	p500 := MustProduct(t, "B", "b", "500", "1")
	p1500 := MustProduct(t, "C", "c", "1500", "1")
	p3000 := MustProduct(t, "D", "d", "3000", "1")
	MustSave(t, repo, p3000, p50, p1500, p500)

	got, err := repo.GetBySpecification(context.Background(), domain.ProductsByPriceRange(Dec("400"), Dec("1000")))
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(IDs(got), []string{p500.ID()}) {
		t.Fatalf("got %v", Names(got))
	}

	got, _ = repo.GetBySpecification(context.Background(), domain.ProductsByPriceRange(Dec("50"), Dec("1500")))
	if !equalStrings(Names(got), []string{"A", "B", "C"}) {
		t.Fatalf("inclusive bounds, ascending price: got %v", Names(got))
	}
}

func testWeightRange(t *testing.T, repo domain.ProductRepository) {
	MustSave(t, repo,
		MustProduct(t, "w15", "x", "1", "15"),
		MustProduct(t, "w0.5", "x", "1", "0.5"),
		MustProduct(t, "w50", "x", "1", "50"),
		MustProduct(t, "w5", "x", "1", "5"),
	)

	got, err := repo.GetBySpecification(context.Background(), domain.ProductsByWeightRange(Dec("3"), Dec("20")))
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(Names(got), []string{"w5", "w15"}) {
		t.Fatalf("got %v", Names(got))
	}
}

func testNameOrDescription(t *testing.T, repo domain.ProductRepository) {
	MustSave(t, repo,
		MustProduct(t, "Zebra lamp", "striped", "1", "1"),
		MustProduct(t, "Apple", "A red LAMP shade", "1", "1"),
		MustProduct(t, "Pear", "green", "1", "1"),
		MustProduct(t, "100% cotton", "under_score", "1", "1"),
	)

	got, err := repo.GetBySpecification(context.Background(), domain.ProductsByNameOrDescription("lamp"))
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(Names(got), []string{"Apple", "Zebra lamp"}) {
		t.Fatalf("got %v", Names(got))
	}

	// LIKE metacharacters in the term are literal.
	got, _ = repo.GetBySpecification(context.Background(), domain.ProductsByNameOrDescription("%"))
	if !equalStrings(Names(got), []string{"100% cotton"}) {
		t.Fatalf("percent term: got %v", Names(got))
	}
	got, _ = repo.GetBySpecification(context.Background(), domain.ProductsByNameOrDescription("t_n"))
	if len(got) != 0 {
		t.Fatalf("underscore should not act as wildcard: got %v", Names(got))
	}
}

func testExpensive(t *testing.T, repo domain.ProductRepository) {
	MustSave(t, repo,
		MustProduct(t, "cheap", "x", "999.99", "1"),
		MustProduct(t, "edge", "x", "1000", "1"),
		MustProduct(t, "top", "x", "9000", "1"),
		MustProduct(t, "mid", "x", "2500", "1"),
	)

	got, err := repo.GetBySpecification(context.Background(), domain.ExpensiveProducts(domain.DefaultExpensiveThreshold))
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(Names(got), []string{"top", "mid", "edge"}) {
		t.Fatalf("got %v", Names(got))
	}
}

func testAffordableAndLightweight(t *testing.T, repo domain.ProductRepository) {
	ctx := context.Background()
	MustSave(t, repo,
		MustProduct(t, "both", "x", "100", "1"),
		MustProduct(t, "heavy", "x", "100", "50"),
		MustProduct(t, "pricey", "x", "900", "1"),
		MustProduct(t, "edge", "x", "500", "5"),
	)

	combined, err := repo.GetBySpecification(ctx, domain.AffordableAndLightweightProducts(Dec("500"), Dec("5")))
	if err != nil {
		t.Fatal(err)
	}
	light, _ := repo.GetBySpecification(ctx, domain.LightweightProducts(Dec("5")))
	cheap, _ := repo.GetBySpecification(ctx, domain.ProductsByPriceRange(decimal.Zero, Dec("500")))

	inLight := map[string]bool{}
	for _, p := range light {
		inLight[p.ID()] = true
	}
	var intersection []string
	for _, p := range cheap {
		if inLight[p.ID()] {
			intersection = append(intersection, p.ID())
		}
	}
	if !equalStrings(IDs(combined), intersection) {
		t.Fatalf("combined %v is not the intersection", Names(combined))
	}
	if !equalStrings(Names(combined), []string{"both", "edge"}) {
		t.Fatalf("got %v", Names(combined))
	}
}

func seedNumbered(t *testing.T, repo domain.ProductRepository, n int) []domain.Product {
	t.Helper()
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = MustProduct(t, fmt.Sprintf("Product %02d", i+1), "numbered", fmt.Sprintf("%d", (n-i)*10), "1")
	}
	MustSave(t, repo, out...)
	return out
}

func testGetAllPaging(t *testing.T, repo domain.ProductRepository) {
	all := seedNumbered(t, repo, 15)

	items, total, err := repo.GetAll(context.Background(), 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	page := domain.NewPagedResult(items, 2, 5, total)
	if !equalStrings(IDs(items), IDs(all[5:10])) {
		t.Fatalf("page 2 = %v", Names(items))
	}
	if page.TotalCount != 15 || page.TotalPages() != 3 || !page.HasPreviousPage() || !page.HasNextPage() {
		t.Fatalf("metadata = total %d pages %d prev %v next %v", page.TotalCount, page.TotalPages(), page.HasPreviousPage(), page.HasNextPage())
	}

	items, _, _ = repo.GetAll(context.Background(), 4, 5)
	if len(items) != 0 {
		t.Fatalf("page past the end should be empty, got %d", len(items))
	}
}

func testGetAllEmpty(t *testing.T, repo domain.ProductRepository) {
	items, total, err := repo.GetAll(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	page := domain.NewPagedResult(items, 1, 10, total)
	if len(page.Items) != 0 || page.TotalCount != 0 || page.TotalPages() != 0 || page.HasPreviousPage() || page.HasNextPage() {
		t.Fatalf("unexpected empty page: %+v", page)
	}
}

func testSpecificationPaging(t *testing.T, repo domain.ProductRepository) {
	seedNumbered(t, repo, 12)

	got, err := repo.GetBySpecification(context.Background(), domain.ProductsWithPagination(3, 5))
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(Names(got), []string{"Product 11", "Product 12"}) {
		t.Fatalf("got %v", Names(got))
	}
}

func testExplicitPageOverridesSpec(t *testing.T, repo domain.ProductRepository) {
	seedNumbered(t, repo, 10)
	spec := specification.New[domain.Product](
		specification.Where(specification.Gte(domain.FieldPrice, specification.Decimal(Dec("30")))),
		specification.OrderBy(domain.FieldPrice),
		specification.Paged(0, 1),
	)

	items, total, err := repo.GetBySpecificationWithPagination(context.Background(), spec, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if total != 8 {
		t.Fatalf("total should ignore paging, got %d", total)
	}
	// prices 30..100 ascending; page 2 of size 3 is 60, 70, 80.
	if !equalStrings(Names(items), []string{"Product 05", "Product 04", "Product 03"}) {
		t.Fatalf("got %v", Names(items))
	}
}

func testTiesKeepInsertionOrder(t *testing.T, repo domain.ProductRepository) {
	MustSave(t, repo,
		MustProduct(t, "third", "x", "10", "1"),
		MustProduct(t, "first", "x", "10", "1"),
		MustProduct(t, "second", "x", "5", "1"),
		MustProduct(t, "fourth", "x", "10", "1"),
	)

	asc, _ := repo.GetBySpecification(context.Background(), domain.ProductsByPriceRange(decimal.Zero, Dec("100")))
	if !equalStrings(Names(asc), []string{"second", "third", "first", "fourth"}) {
		t.Fatalf("ascending ties: %v", Names(asc))
	}
	desc, _ := repo.GetBySpecification(context.Background(), domain.ExpensiveProducts(decimal.Zero))
	if !equalStrings(Names(desc), []string{"third", "first", "fourth", "second"}) {
		t.Fatalf("descending ties: %v", Names(desc))
	}
}

func testCount(t *testing.T, repo domain.ProductRepository) {
	seedNumbered(t, repo, 7)

	n, err := repo.CountBySpecification(context.Background(), domain.ProductsWithPagination(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("count should ignore paging, got %d", n)
	}

	n, _ = repo.CountBySpecification(context.Background(), domain.ExpensiveProducts(Dec("50")))
	if n != 3 {
		t.Fatalf("count of price >= 50 = %d", n)
	}
}

func testUnknownField(t *testing.T, repo domain.ProductRepository) {
	spec := specification.New[domain.Product](specification.Where(specification.Eq("colour", specification.Text("red"))))
	if _, err := repo.GetBySpecification(context.Background(), spec); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func testConcurrentSaves(t *testing.T, repo domain.ProductRepository) {
	ctx := context.Background()
	shared := MustProduct(t, "shared", "x", "1", "1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, _ := domain.RestoreProduct(shared.ID(), "shared", fmt.Sprintf("v%d", i), Dec("1"), Dec("1"))
			if _, err := repo.Save(ctx, p); err != nil {
				t.Error(err)
			}
			if _, err := repo.Save(ctx, MustProduct(t, fmt.Sprintf("own %d", i), "x", "1", "1")); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	_, total, err := repo.GetAll(ctx, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if total != 21 {
		t.Fatalf("expected 21 records, got %d", total)
	}
}
