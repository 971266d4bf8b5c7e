package product

import (
	"context"

	dom "example.com/stripe-shop/app/internal/domain/product"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*dom.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Check reports whether the catalog backend is reachable. SQL catalogs are
// pinged; the file catalog is checked by loading it.
func (s *Service) Check(ctx context.Context) error {
	if p, ok := s.repo.(pinger); ok {
		return p.Ping(ctx)
	}
	_, err := s.repo.List(ctx)
	return err
}
