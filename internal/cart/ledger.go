package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/andersondev17/AMMAE-sub000/internal/catalog"
	"github.com/andersondev17/AMMAE-sub000/internal/pricing"
)

// NotificationDelay is how long the add-to-cart notification stays up
// before the ledger hides it again.
const NotificationDelay = 3 * time.Second

var (
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrQuantityCapExceeded = errors.New("quantity cap per line exceeded")
	ErrInsufficientStock   = errors.New("requested quantity exceeds available stock")
	ErrInvalidVariant      = errors.New("invalid size or color selection")
	ErrItemNotFound        = errors.New("item not found in cart")
)

// ProductSource resolves product ids back to catalog entries when a stored
// cart is restored.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// AddOptions carries the buyer's variant selection for AddItem.
// Quantity below 1 defaults to 1.
type AddOptions struct {
	Size     string
	Color    string
	Quantity int
}

// Ledger holds one session's cart lines and their derived totals. All
// operations recompute totals from scratch and then write the essential
// fields through to Storage; the in-memory state is authoritative and a
// failed write is logged, never surfaced.
type Ledger struct {
	mu        sync.Mutex
	sessionID string
	storage   Storage
	hideDelay time.Duration

	items []LineItem
	open  bool

	lastAdded        *LineItem
	showNotification bool
	hideTimer        *time.Timer
	notifyGen        uint64
}

func NewLedger(sessionID string, storage Storage) *Ledger {
	return &Ledger{
		sessionID: sessionID,
		storage:   storage,
		hideDelay: NotificationDelay,
	}
}

// Restore seeds the ledger from storage. Lines whose product no longer
// exists or has no stock are dropped, quantities are clamped to current
// limits, and prices are resolved fresh. Any storage failure leaves the
// ledger empty rather than failing startup.
func (l *Ledger) Restore(ctx context.Context, products ProductSource) {
	stored, err := l.storage.Load(ctx, l.sessionID)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			log.Printf("cart restore failed for session %s: %v", l.sessionID, err)
		}
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := false
	for _, si := range stored {
		product, errGet := products.GetProduct(ctx, si.ProductID)
		if errGet != nil || product.Stock <= 0 {
			dropped = true
			continue
		}

		qty := clampQuantity(si.Quantity, product.Stock)
		if qty != si.Quantity {
			dropped = true
		}

		l.items = append(l.items, LineItem{
			Product:  *product,
			Size:     si.Size,
			Color:    si.Color,
			Quantity: qty,
		})
	}

	l.recomputeLocked()
	if dropped {
		l.persistLocked(ctx)
	}
}

// AddItem upserts a line for the given variant. The same product in the
// same size and color increments the existing line; a different variant
// is a new line. Rejections leave the cart untouched.
func (l *Ledger) AddItem(ctx context.Context, product *catalog.Product, opts AddOptions) error {
	if product.Stock <= 0 {
		return ErrOutOfStock
	}
	if !product.HasSize(opts.Size) || !product.HasColor(opts.Color) {
		return ErrInvalidVariant
	}

	quantity := opts.Quantity
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := ItemKey{ProductID: product.ID, Size: opts.Size, Color: opts.Color}
	idx := l.indexOfLocked(key)

	newQuantity := quantity
	if idx >= 0 {
		newQuantity = l.items[idx].Quantity + quantity
	}
	if newQuantity > MaxQuantityPerLine {
		return ErrQuantityCapExceeded
	}
	if newQuantity > product.Stock {
		return ErrInsufficientStock
	}

	if idx >= 0 {
		l.items[idx].Product = *product
		l.items[idx].Quantity = newQuantity
	} else {
		l.items = append(l.items, LineItem{
			Product:  *product,
			Size:     opts.Size,
			Color:    opts.Color,
			Quantity: newQuantity,
		})
		idx = len(l.items) - 1
	}

	l.recomputeLocked()
	l.armNotificationLocked(l.items[idx])
	l.persistLocked(ctx)
	return nil
}

// RemoveItem deletes the matching line. A missing key is a no-op.
func (l *Ledger) RemoveItem(ctx context.Context, key ItemKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOfLocked(key)
	if idx < 0 {
		return
	}

	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.recomputeLocked()
	l.persistLocked(ctx)
}

// UpdateQuantity sets the line's quantity, clamped to
// [1, min(MaxQuantityPerLine, stock)].
func (l *Ledger) UpdateQuantity(ctx context.Context, key ItemKey, requested int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOfLocked(key)
	if idx < 0 {
		return ErrItemNotFound
	}

	l.items[idx].Quantity = clampQuantity(requested, l.items[idx].Product.Stock)
	l.recomputeLocked()
	l.persistLocked(ctx)
	return nil
}

// Clear empties the cart and cancels any pending notification.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.lastAdded = nil
	l.showNotification = false
	l.notifyGen++
	if l.hideTimer != nil {
		l.hideTimer.Stop()
		l.hideTimer = nil
	}

	l.recomputeLocked()
	l.persistLocked(ctx)
}

// Open and Close toggle the cart drawer flag; line items are untouched.
func (l *Ledger) Open() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = true
}

func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
}

func (l *Ledger) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Notification returns the last added line while the auto-hide timer has
// not fired yet.
func (l *Ledger) Notification() (*LineItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.showNotification || l.lastAdded == nil {
		return nil, false
	}
	item := *l.lastAdded
	return &item, true
}

// Snapshot returns a point-in-time copy of the cart with derived totals.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() Snapshot {
	items := make([]LineItem, len(l.items))
	copy(items, l.items)

	snap := Snapshot{Items: items}
	for _, it := range items {
		snap.ItemCount += it.Quantity
		snap.Subtotal += it.LineTotal
	}
	if snap.Subtotal > 0 && snap.Subtotal < FreeShippingThreshold {
		snap.Shipping = DisplayShippingCost
	}
	snap.GrandTotal = snap.Subtotal + snap.Shipping
	return snap
}

// recomputeLocked re-derives every unit price and line total from the
// catalog snapshots. Full recomputation, not incremental adjustment, so
// totals cannot drift.
func (l *Ledger) recomputeLocked() {
	for i := range l.items {
		l.items[i].UnitPrice = pricing.Resolve(&l.items[i].Product)
		l.items[i].LineTotal = l.items[i].UnitPrice * float64(l.items[i].Quantity)
	}
}

func (l *Ledger) persistLocked(ctx context.Context) {
	stored := make([]StoredItem, len(l.items))
	for i, it := range l.items {
		stored[i] = StoredItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		}
	}
	if err := l.storage.Save(ctx, l.sessionID, stored); err != nil {
		log.Printf("cart persist failed for session %s: %v", l.sessionID, err)
	}
}

// armNotificationLocked replaces any pending hide timer with a fresh one.
// The generation counter keeps a timer that already fired from hiding a
// newer notification.
func (l *Ledger) armNotificationLocked(item LineItem) {
	l.lastAdded = &item
	l.showNotification = true
	l.notifyGen++
	gen := l.notifyGen

	if l.hideTimer != nil {
		l.hideTimer.Stop()
	}
	l.hideTimer = time.AfterFunc(l.hideDelay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.notifyGen != gen {
			return
		}
		l.showNotification = false
		l.lastAdded = nil
	})
}

func (l *Ledger) indexOfLocked(key ItemKey) int {
	for i := range l.items {
		if l.items[i].Key() == key {
			return i
		}
	}
	return -1
}

func clampQuantity(requested, stock int) int {
	max := MaxQuantityPerLine
	if stock < max {
		max = stock
	}
	if requested > max {
		return max
	}
	if requested < 1 {
		return 1
	}
	return requested
}
