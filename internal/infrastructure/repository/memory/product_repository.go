package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/catalog-api/internal/domain"
)

type entry struct {
	product domain.Product
	seq     uint64
}

// ProductRepository is an in-memory implementation of domain.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*entry
	seq      uint64
	now      func() time.Time
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*entry),
		now:      time.Now,
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a copy of the product and assigns its id and timestamps
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return domain.NewStorageError("create", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	product.ID = uuid.New().String()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.seq++
	r.products[product.ID] = &entry{product: *product, seq: r.seq}

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.logger.DebugContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.products[id]
	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	product := e.product
	span.SetStatus(codes.Ok, "Product found")
	return &product, nil
}

// FindAll retrieves all products, newest first
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return nil, domain.NewStorageError("find", err)
	}

	r.mu.RLock()
	entries := make([]*entry, 0, len(r.products))
	for _, e := range r.products {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})

	products := make([]*domain.Product, len(entries))
	for i, e := range entries {
		product := e.product
		products[i] = &product
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
