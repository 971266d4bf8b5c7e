package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domproduct "example.com/stripe-shop/app/internal/domain/product"
)

// ProductRepository is a read-only catalog backed by a MySQL products table.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, description, price, COALESCE(image, '')
        FROM products WHERE id = ? AND is_active = 1
    `, id)

	var p domproduct.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, unavailable(err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, description, price, COALESCE(image, '')
        FROM products
        WHERE is_active = 1
        ORDER BY id
    `)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	products := make([]*domproduct.Product, 0)
	for rows.Next() {
		var p domproduct.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image); err != nil {
			return nil, unavailable(err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return products, nil
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
}
