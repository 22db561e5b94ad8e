package memory

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/catalog-api/internal/domain"
)

func newRepository() *ProductRepository {
	return NewProductRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
}

func TestProductRepository_Create(t *testing.T) {
	repo := newRepository()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	product := &domain.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, repo.Create(context.Background(), product))

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, fixed, product.CreatedAt)
	assert.Equal(t, fixed, product.UpdatedAt)

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, *product, *found)

	// stored copy is not aliased to the caller's value
	product.Name = "Changed"
	found, err = repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)
}

func TestProductRepository_FindAllNewestFirst(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, &domain.Product{Name: name, Price: 1}))
	}

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []string{"C", "B", "A"}, names(products))
}

func TestProductRepository_FindAllSameTimestamp(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, &domain.Product{Name: name, Price: 1}))
	}

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names(products))
}

func TestProductRepository_FindAllEmpty(t *testing.T) {
	products, err := newRepository().FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_FindByIDNotFound(t *testing.T) {
	product, err := newRepository().FindByID(context.Background(), "nope")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepository_CancelledContext(t *testing.T) {
	repo := newRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &domain.Product{Name: "Widget", Price: 1})
	var sErr *domain.StorageError
	require.ErrorAs(t, err, &sErr)
	assert.ErrorIs(t, err, context.Canceled)

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_ConcurrentCreate(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, &domain.Product{Name: "Item", Price: 1}))
		}()
	}
	wg.Wait()

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 50)
}

func names(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
