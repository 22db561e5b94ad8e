package service_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/catalog-api/internal/app/dto"
	"github.com/mrops-br/catalog-api/internal/app/service"
	"github.com/mrops-br/catalog-api/internal/domain"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func newService(repo domain.ProductRepository) *service.ProductService {
	return service.NewProductService(
		repo,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		slog.New(slog.DiscardHandler),
	)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stores trimmed name", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
			return p.Name == "Widget" && p.Price == 9.99
		})).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.Product)
			p.ID = "abc123"
			p.CreatedAt = createdAt
			p.UpdatedAt = createdAt
		}).Return(nil).Once()

		resp, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{Name: "  Widget  ", Price: 9.99})

		require.NoError(t, err)
		assert.Equal(t, "abc123", resp.ID)
		assert.Equal(t, "Widget", resp.Name)
		assert.Equal(t, 9.99, resp.Price)
		assert.Equal(t, createdAt, resp.CreatedAt)
		assert.Equal(t, createdAt, resp.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("validation failures never reach the repository", func(t *testing.T) {
		cases := []struct {
			req  dto.CreateProductRequest
			want error
		}{
			{req: dto.CreateProductRequest{Name: "", Price: 5}, want: domain.ErrInvalidProductName},
			{req: dto.CreateProductRequest{Name: "   ", Price: 5}, want: domain.ErrInvalidProductName},
			{req: dto.CreateProductRequest{Name: "Gadget", Price: -1}, want: domain.ErrInvalidProductPrice},
			{req: dto.CreateProductRequest{Name: "Gadget", Price: math.NaN()}, want: domain.ErrInvalidProductPrice},
		}

		for _, c := range cases {
			repo := new(MockProductRepository)
			svc := newService(repo)

			resp, err := svc.CreateProduct(ctx, &c.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, c.want)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})

	t.Run("storage failure is returned unchanged", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo)
		storageErr := domain.NewStorageError("insert", errors.New("server selection timeout"))

		repo.On("Create", mock.Anything, mock.Anything).Return(storageErr).Once()

		resp, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{Name: "Widget", Price: 1})

		assert.Nil(t, resp)
		assert.Same(t, storageErr, err)
		repo.AssertExpectations(t)
	})
}

func TestProductService_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps repository order", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo)

		repo.On("FindAll", mock.Anything).Return([]*domain.Product{
			{ID: "c", Name: "C"},
			{ID: "b", Name: "B"},
			{ID: "a", Name: "A"},
		}, nil).Once()

		products, err := svc.ListProducts(ctx)

		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "c", products[0].ID)
		assert.Equal(t, "a", products[2].ID)
	})

	t.Run("empty", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo)

		repo.On("FindAll", mock.Anything).Return([]*domain.Product{}, nil).Once()

		products, err := svc.ListProducts(ctx)

		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newService(repo)

		repo.On("FindAll", mock.Anything).Return(nil, domain.NewStorageError("find", errors.New("boom"))).Once()

		products, err := svc.ListProducts(ctx)

		assert.Nil(t, products)
		var sErr *domain.StorageError
		assert.ErrorAs(t, err, &sErr)
	})
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newService(repo)

	repo.On("FindByID", mock.Anything, "a").Return(&domain.Product{ID: "a", Name: "A", Price: 1}, nil).Once()
	repo.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrProductNotFound).Once()

	product, err := svc.GetProductByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", product.Name)

	product, err = svc.GetProductByID(ctx, "missing")
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	repo.AssertExpectations(t)
}
