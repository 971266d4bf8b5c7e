// Package catalog serves the product list from a static JSON file.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	domproduct "example.com/stripe-shop/app/internal/domain/product"
)

// FileRepository reads the catalog file on first use and keeps it in memory.
// A failed read is not cached, so the next call tries again.
type FileRepository struct {
	path string

	mu       sync.RWMutex
	products []*domproduct.Product
	byID     map[int64]*domproduct.Product
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domproduct.Product, 0, len(r.products))
	for _, p := range r.products {
		cloned := *p
		out = append(out, &cloned)
	}
	return out, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *FileRepository) ensureLoaded() error {
	r.mu.RLock()
	loaded := r.byID != nil
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID != nil {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
	}
	products, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
	}

	byID := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	r.products = products
	r.byID = byID
	return nil
}

// Parse decodes a JSON array of products and rejects duplicate ids.
func Parse(data []byte) ([]*domproduct.Product, error) {
	var products []*domproduct.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[int64]struct{}, len(products))
	for i, p := range products {
		if p == nil {
			return nil, fmt.Errorf("catalog entry %d is null", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d has negative price", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}
