package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domproduct "example.com/stripe-shop/app/internal/domain/product"
)

const sampleCatalog = `[
  {"id": 1, "name": "Mug", "description": "Ceramic mug", "price": 1200},
  {"id": 2, "name": "T-Shirt", "description": "Cotton tee", "price": 2500, "image": "/img/tee.png"}
]`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFileRepository_List(t *testing.T) {
	repo := NewFileRepository(writeCatalog(t, sampleCatalog))

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Mug", products[0].Name)
	require.Equal(t, int64(2500), products[1].Price)
	require.Equal(t, "/img/tee.png", products[1].Image)
}

func TestFileRepository_ReadsFileOnce(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	repo := NewFileRepository(path)

	_, err := repo.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
}

func TestFileRepository_ReturnsCopies(t *testing.T) {
	repo := NewFileRepository(writeCatalog(t, sampleCatalog))

	p, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	p.Price = 1

	again, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1200), again.Price)
}

func TestFileRepository_GetByID_NotFound(t *testing.T) {
	repo := NewFileRepository(writeCatalog(t, sampleCatalog))

	_, err := repo.GetByID(context.Background(), 99)

	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestFileRepository_MissingFile_RetriesLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	repo := NewFileRepository(path)

	_, err := repo.List(context.Background())
	require.ErrorIs(t, err, domproduct.ErrCatalogUnavailable)

	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "Malformed JSON", body: `{`, wantErr: "decode catalog"},
		{name: "Duplicate id", body: `[{"id":1},{"id":1}]`, wantErr: "duplicate product id 1"},
		{name: "Negative price", body: `[{"id":3,"price":-5}]`, wantErr: "negative price"},
		{name: "Null entry", body: `[null]`, wantErr: "is null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
