package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domproduct "example.com/stripe-shop/app/internal/domain/product"
)

const selectProducts = `
    SELECT id, name, description, price, COALESCE(image, '')
    FROM products
    WHERE is_active = TRUE`

// ProductRepository is a read-only catalog backed by a Postgres products table.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Connect opens a pgx pool and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.pool.QueryRow(ctx, selectProducts+` AND id = $1`, id)

	var p domproduct.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, unavailable(err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	rows, err := r.pool.Query(ctx, selectProducts+` ORDER BY id`)
	if err != nil {
		return nil, unavailable(err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domproduct.Product, error) {
		var p domproduct.Product
		err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image)
		return &p, err
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return products, nil
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
}
