package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/sentinel"
)

// Schema is the products table DDL. Kept here so integration tests and the
// bootstrap path share one definition.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	abv            DOUBLE PRECISION,
	max_per_order  INTEGER,
	minimum_age    INTEGER NOT NULL DEFAULT 18
)`

// PostgresStore is the production catalog store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the products table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure products schema: %w", err)
	}
	return nil
}

const selectColumns = `id, name, category, abv, max_per_order, minimum_age`

func (s *PostgresStore) FindByID(ctx context.Context, productID id.ProductID) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM products WHERE id = $1`,
		string(productID),
	)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	return &product, nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, productIDs []id.ProductID) (map[id.ProductID]Product, error) {
	if len(productIDs) == 0 {
		return map[id.ProductID]Product{}, nil
	}

	raw := make([]string, 0, len(productIDs))
	for _, productID := range productIDs {
		raw = append(raw, string(productID))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM products WHERE id = ANY($1)`,
		raw,
	)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	found := make(map[id.ProductID]Product, len(productIDs))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		found[product.ID] = product
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return found, nil
}

// Upsert inserts or replaces a product. Used by the seed path and tests.
func (s *PostgresStore) Upsert(ctx context.Context, product Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, abv, max_per_order, minimum_age)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			abv = EXCLUDED.abv,
			max_per_order = EXCLUDED.max_per_order,
			minimum_age = EXCLUDED.minimum_age`,
		string(product.ID), product.Name, product.Category,
		product.ABV, product.MaxPerOrder, product.MinimumAge,
	)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", product.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		product     Product
		rawID       string
		abv         sql.NullFloat64
		maxPerOrder sql.NullInt64
	)
	if err := row.Scan(&rawID, &product.Name, &product.Category, &abv, &maxPerOrder, &product.MinimumAge); err != nil {
		return Product{}, err
	}
	product.ID = id.ProductID(rawID)
	if abv.Valid {
		product.ABV = &abv.Float64
	}
	if maxPerOrder.Valid {
		capVal := int(maxPerOrder.Int64)
		product.MaxPerOrder = &capVal
	}
	return product, nil
}
