package cart

import "github.com/andersondev17/AMMAE-sub000/internal/catalog"

const (
	// MaxQuantityPerLine caps how many units of one variant a single cart
	// line may hold, independent of stock.
	MaxQuantityPerLine = 10

	// FreeShippingThreshold is the subtotal at and above which the cart
	// displays free shipping. Display-only: the checkout tariff decides
	// what is actually charged.
	FreeShippingThreshold = 150000

	// DisplayShippingCost is the flat figure shown below the threshold.
	DisplayShippingCost = 8000
)

// ItemKey identifies a cart line. Same product in a different size or
// color is a different line.
type ItemKey struct {
	ProductID string
	Size      string
	Color     string
}

// LineItem is a catalog snapshot taken at add time plus the buyer's
// variant selection. UnitPrice and LineTotal are recomputed on every
// mutation, never persisted.
type LineItem struct {
	Product   catalog.Product
	Size      string
	Color     string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

func (li *LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.Product.ID, Size: li.Size, Color: li.Color}
}

// Snapshot is a point-in-time copy of the cart with derived totals.
// Checkout reads one of these; later ledger mutations do not leak into it.
type Snapshot struct {
	Items      []LineItem
	ItemCount  int
	Subtotal   float64
	Shipping   float64
	GrandTotal float64
}

// IsEmpty reports whether the snapshot holds no lines.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
