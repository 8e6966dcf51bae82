package sqlcrepo

import (
	"context"
	"testing"

	"catalog-service/internal/domain"
	"catalog-service/internal/repository/repotest"
)

func newSQLiteRepo(t *testing.T) domain.ProductRepository {
	t.Helper()
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	dbtx := FromSQL(db)
	if err := EnsureSchema(ctx, dbtx, SQLite); err != nil {
		t.Fatal(err)
	}
	return NewProductRepository(dbtx, SQLite)
}

func TestProductRepositorySQLite(t *testing.T) {
	repotest.Run(t, newSQLiteRepo)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := EnsureSchema(ctx, FromSQL(db), SQLite); err != nil {
			t.Fatalf("EnsureSchema #%d: %v", i+1, err)
		}
	}
}
