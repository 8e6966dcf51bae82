package sqlcrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/specification"
	"catalog-service/pkg/logger"

	"github.com/shopspring/decimal"
)

const productColumnsSQL = "CAST(id AS TEXT), name, description, CAST(price AS TEXT), CAST(weight AS TEXT)"

const upsertProductSQL = `INSERT INTO products (id, name, description, price, weight)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	description = excluded.description,
	price = excluded.price,
	weight = excluded.weight`

type productRepository struct {
	db      DBTX
	dialect Dialect

	getByID string
	upsert  string
	delete  string
}

// NewProductRepository serves specification queries by pushing filtering,
// ordering and paging down to the database.
func NewProductRepository(db DBTX, dialect Dialect) domain.ProductRepository {
	return &productRepository{
		db:      db,
		dialect: dialect,
		getByID: dialect.rebind("SELECT " + productColumnsSQL + " FROM products WHERE id = $1"),
		upsert:  dialect.rebind(upsertProductSQL),
		delete:  dialect.rebind("DELETE FROM products WHERE id = $1"),
	}
}

// EnsureSchema creates the products table when it does not exist.
func EnsureSchema(ctx context.Context, db DBTX, dialect Dialect) error {
	if err := db.Exec(ctx, dialect.schema); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	start := time.Now()
	p, err := scanProduct(r.db.QueryRow(ctx, r.getByID, r.dialect.bindID(id)))
	if isNoRows(err) {
		logger.DBQuery("GetProductByID", time.Since(start), nil)
		return nil, nil
	}
	logger.DBQuery("GetProductByID", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	start := time.Now()
	err := r.db.Exec(ctx, r.upsert,
		r.dialect.bindID(product.ID()),
		product.Name(),
		product.Description(),
		r.dialect.bindDecimal(product.Price()),
		r.dialect.bindDecimal(product.Weight()),
	)
	logger.DBQuery("UpsertProduct", time.Since(start), err)
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.db.Exec(ctx, r.delete, r.dialect.bindID(id))
	logger.DBQuery("DeleteProduct", time.Since(start), err)
	return err
}

func (r *productRepository) GetAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, int64, error) {
	all := specification.New[domain.Product]()
	return r.GetBySpecificationWithPagination(ctx, all, pageNumber, pageSize)
}

func (r *productRepository) GetBySpecification(ctx context.Context, spec domain.ProductSpec) ([]domain.Product, error) {
	q, err := Translate(spec, r.dialect)
	if err != nil {
		return nil, err
	}

	parts := []string{"SELECT " + productColumnsSQL + " FROM products"}
	for _, frag := range []string{q.Where, q.OrderBy, q.Limit} {
		if frag != "" {
			parts = append(parts, frag)
		}
	}
	query := strings.Join(parts, " ")

	start := time.Now()
	rows, err := r.db.Query(ctx, query, q.Args...)
	if err != nil {
		logger.DBQuery(query, time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.DBQuery(query, time.Since(start), err)
			return nil, err
		}
		products = append(products, p)
	}
	err = rows.Err()
	logger.DBQuery(query, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetBySpecificationWithPagination(ctx context.Context, spec domain.ProductSpec, pageNumber, pageSize int) ([]domain.Product, int64, error) {
	total, err := r.CountBySpecification(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Product{}, 0, nil
	}

	products, err := r.GetBySpecification(ctx, spec.WithPage(pageNumber, pageSize))
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) CountBySpecification(ctx context.Context, spec domain.ProductSpec) (int64, error) {
	where, args, err := TranslateCriteria(spec.Criteria(), r.dialect)
	if err != nil {
		return 0, err
	}
	query := "SELECT COUNT(*) FROM products"
	if where != "" {
		query += " " + where
	}

	start := time.Now()
	var count int64
	err = r.db.QueryRow(ctx, query, args...).Scan(&count)
	logger.DBQuery(query, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// --- Mappers ---

func scanProduct(row Row) (domain.Product, error) {
	var id, name, description, price, weight string
	if err := row.Scan(&id, &name, &description, &price, &weight); err != nil {
		return domain.Product{}, err
	}

	priceDec, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: price %q: %w", id, price, err)
	}
	weightDec, err := decimal.NewFromString(weight)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: weight %q: %w", id, weight, err)
	}
	return domain.RestoreProduct(id, name, description, priceDec, weightDec)
}
