package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	description TEXT,
	carbon_per_unit DOUBLE PRECISION NOT NULL,
	declared_unit TEXT,
	source TEXT,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category_carbon ON products(category, carbon_per_unit);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, category, description, carbon_per_unit, declared_unit, source
FROM products
WHERE active
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// Search returns active products in a category with a strictly lower per-unit
// factor, lowest first, so callers can take the head as best substitutes.
func (r *CatalogRepository) Search(ctx context.Context, category string, maxCarbonPerUnit float64, limit int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, category, description, carbon_per_unit, declared_unit, source
FROM products
WHERE active AND category ILIKE $1 AND carbon_per_unit < $2
ORDER BY carbon_per_unit ASC
LIMIT $3
`, "%"+category+"%", maxCarbonPerUnit, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0, limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// Upsert inserts or refreshes a product record, used by the catalog importer.
func (r *CatalogRepository) Upsert(ctx context.Context, product domain.Product) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id, name, category, description, carbon_per_unit, declared_unit, source, active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE,$8,$8)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
	category = EXCLUDED.category,
	description = EXCLUDED.description,
	carbon_per_unit = EXCLUDED.carbon_per_unit,
	declared_unit = EXCLUDED.declared_unit,
	source = EXCLUDED.source,
	active = TRUE,
	updated_at = EXCLUDED.updated_at
`, product.ID, product.Name, product.Category, product.Description, product.CarbonPerUnit,
		product.DeclaredUnit, product.Source, now)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

type productScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row productScanner) (domain.Product, error) {
	var product domain.Product
	var description, declaredUnit, source sql.NullString
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&description,
		&product.CarbonPerUnit,
		&declaredUnit,
		&source,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	product.Description = description.String
	product.DeclaredUnit = declaredUnit.String
	product.Source = source.String
	return product, nil
}
