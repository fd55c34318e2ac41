package cart

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

// StoredItem is the durable shape of a cart line: identity and quantity
// only. Prices are resolved again on restore so a price change between
// visits never serves a stale total.
type StoredItem struct {
	ProductID string `json:"producto"`
	Quantity  int    `json:"cantidad"`
	Size      string `json:"talla,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Storage persists cart lines across visits. The ledger treats it as a
// best-effort cache: load failures fall back to an empty cart and save
// failures never roll back the in-memory state.
type Storage interface {
	Load(ctx context.Context, sessionID string) ([]StoredItem, error)
	Save(ctx context.Context, sessionID string, items []StoredItem) error
	Delete(ctx context.Context, sessionID string) error
}
