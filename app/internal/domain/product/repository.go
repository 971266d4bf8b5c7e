package product

import "context"

// Repository is a read-only view of the catalog.
type Repository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
