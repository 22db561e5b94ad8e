package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/mrops-br/catalog-api/internal/infrastructure/config"
)

// Client owns the driver connection and the configured database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	cfg      *config.StorageConfig
	logger   *slog.Logger
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Connected to MongoDB",
		slog.String("database", cfg.Database),
		slog.String("collection", cfg.Collection),
	)

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Collection returns the configured product collection.
func (c *Client) Collection() *mongo.Collection {
	return c.database.Collection(c.cfg.Collection)
}

// Disconnect closes all pooled connections.
func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	c.logger.Info("Disconnected from MongoDB")
	return nil
}
