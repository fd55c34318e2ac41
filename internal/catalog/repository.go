package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for catalog reads.
// Consumers define this interface, not the MongoDB implementation.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListByCategory(ctx context.Context, category string, limit int64) ([]Product, error)
}
