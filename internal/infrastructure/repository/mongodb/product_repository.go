package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/catalog-api/internal/domain"
)

const createdAtIndex = "createdAt_-1"

// productDocument is the stored shape of a product.
type productDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     d.Price,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// ProductRepository is a MongoDB implementation of domain.ProductRepository
type ProductRepository struct {
	collection *mongo.Collection
	now        func() time.Time
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewProductRepository creates a repository over the given collection
func NewProductRepository(collection *mongo.Collection, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		collection: collection,
		now:        time.Now,
		tracer:     tracer,
		logger:     logger,
	}
}

// EnsureIndexes creates the descending createdAt index used by FindAll.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName(createdAtIndex),
	})
	if err != nil {
		return domain.NewStorageError("create index", err)
	}
	return nil
}

// Create inserts the product and writes the assigned id and timestamps back
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	// BSON dates carry millisecond precision
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := productDocument{
		ID:        primitive.NewObjectID(),
		Name:      product.Name,
		Price:     product.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return domain.NewStorageError("insert", err)
	}

	product.ID = doc.ID.Hex()
	product.CreatedAt = doc.CreatedAt
	product.UpdatedAt = doc.UpdatedAt

	span.SetAttributes(attribute.String("product.id", product.ID))
	r.logger.DebugContext(ctx, "Product inserted",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by its hex object id
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Find failed")
		return nil, domain.NewStorageError("find one", err)
	}

	span.SetStatus(codes.Ok, "Product found")
	return doc.toDomain(), nil
}

// FindAll retrieves all products, newest first
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	// _id breaks ties between products created in the same millisecond
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Find failed")
		return nil, domain.NewStorageError("find", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Cursor failed")
		return nil, domain.NewStorageError("find", fmt.Errorf("decode cursor: %w", err))
	}

	products := make([]*domain.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toDomain()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
