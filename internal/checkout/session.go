package checkout

import (
	"sync/atomic"

	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/order"
)

// Session is one buyer's pass through the checkout flow. It carries a
// point-in-time cart snapshot: ledger mutations after entry do not leak
// into an in-flight submission.
type Session struct {
	ID             string
	CartSessionID  string
	Step           Step
	Contact        ContactForm
	ShippingMethod ShippingMethod
	PaymentMethod  order.PaymentMethod
	EvidenceRef    string
	Cart           cart.Snapshot
	OrderNumber    string

	// submitting guards against double-submit from repeated clicks.
	// An in-flight submission is not cancellable.
	submitting atomic.Bool
}

// ShippingCost is the tariff for the chosen method. Defaults to standard
// before a method is picked.
func (s *Session) ShippingCost() float64 {
	return s.ShippingMethod.Cost()
}

// TotalPaid is the amount submitted to the Order API: cart subtotal plus
// the checkout tariff.
func (s *Session) TotalPaid() float64 {
	return s.Cart.Subtotal + s.ShippingCost()
}
