package domain

import (
	"context"
)

// ProductRepository defines the contract for product storage.
//
// Create assigns ID, CreatedAt and UpdatedAt on the passed product.
// FindAll returns products ordered by CreatedAt, newest first, and never a nil slice.
// Adapter failures are reported as *StorageError.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}
