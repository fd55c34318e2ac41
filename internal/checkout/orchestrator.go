package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/andersondev17/AMMAE-sub000/internal/analytics"
	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/notify"
	"github.com/andersondev17/AMMAE-sub000/internal/order"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrIllegalTransition    = errors.New("illegal transition of checkout step")
	ErrValidationFailed     = errors.New("contact form validation failed")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidShipping      = errors.New("invalid shipping method")
	ErrEvidenceRequired     = errors.New("payment evidence is required")
	ErrSubmitInFlight       = errors.New("a submission is already in flight")
)

// Notifier is the side channel fired after a successful order. It is
// best-effort: the dispatcher reports failures in its result, never as
// an error that could roll anything back.
type Notifier interface {
	SendOrderNotification(snap cart.Snapshot, customer order.CustomerData, shipping float64, userAgent string) notify.Result
}

// SubmitResult is what a finished submission hands back to the caller.
type SubmitResult struct {
	OrderNumber         string
	Notification        notify.Result
	NotificationWarning bool
}

// Orchestrator drives checkout sessions through the step machine and
// owns the one submission path to the Order API.
type Orchestrator struct {
	mu       sync.Mutex
	sessions map[string]*Session

	orders   order.Submitter
	notifier Notifier
	events   analytics.EventPublisher
}

func NewOrchestrator(orders order.Submitter, notifier Notifier, events analytics.EventPublisher) *Orchestrator {
	return &Orchestrator{
		sessions: make(map[string]*Session),
		orders:   orders,
		notifier: notifier,
		events:   events,
	}
}

// Begin opens a checkout session over a point-in-time copy of the cart.
func (o *Orchestrator) Begin(ledger *cart.Ledger, cartSessionID string) (*Session, error) {
	snap := ledger.Snapshot()
	if snap.IsEmpty() {
		return nil, ErrEmptyCart
	}

	sess := &Session{
		ID:             uuid.New().String(),
		CartSessionID:  cartSessionID,
		Step:           StepContactInfo,
		ShippingMethod: ShippingStandard,
		Cart:           snap,
	}

	o.mu.Lock()
	o.sessions[sess.ID] = sess
	o.mu.Unlock()

	return sess, nil
}

func (o *Orchestrator) Session(id string) (*Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Discard drops a session, e.g. when the buyer navigates away. No
// cleanup is needed: nothing server-side was allocated yet.
func (o *Orchestrator) Discard(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, id)
}

// SubmitContactInfo validates the form and advances to the payment
// method step. Field errors keep the session where it is.
func (o *Orchestrator) SubmitContactInfo(sess *Session, form ContactForm, shipping ShippingMethod) (map[string]string, error) {
	if !CanTransitionTo(sess.Step, StepPaymentMethod) {
		return nil, ErrIllegalTransition
	}
	if !shipping.Valid() {
		return nil, ErrInvalidShipping
	}

	if fieldErrs := form.Validate(); len(fieldErrs) > 0 {
		return fieldErrs, ErrValidationFailed
	}

	sess.Contact = form
	sess.ShippingMethod = shipping
	sess.Step = StepPaymentMethod
	return nil, nil
}

// SelectPaymentMethod either submits immediately (pay on delivery) or
// parks the session at the evidence step (transfer, QR).
func (o *Orchestrator) SelectPaymentMethod(ctx context.Context, sess *Session, ledger *cart.Ledger, method order.PaymentMethod, userAgent string) (*SubmitResult, error) {
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	sess.PaymentMethod = method

	if method.RequiresEvidence() {
		if !CanTransitionTo(sess.Step, StepPaymentEvidence) {
			return nil, ErrIllegalTransition
		}
		sess.Step = StepPaymentEvidence
		return nil, nil
	}

	return o.submit(ctx, sess, ledger, userAgent)
}

// ConfirmEvidence attaches the payment receipt and submits.
func (o *Orchestrator) ConfirmEvidence(ctx context.Context, sess *Session, ledger *cart.Ledger, evidenceRef, userAgent string) (*SubmitResult, error) {
	if sess.Step != StepPaymentEvidence {
		return nil, ErrIllegalTransition
	}
	if evidenceRef == "" {
		return nil, ErrEvidenceRequired
	}
	sess.EvidenceRef = evidenceRef

	return o.submit(ctx, sess, ledger, userAgent)
}

// submit is the single path to the Order API. On failure the session
// stays at its current step and the cart is untouched, so the buyer can
// retry. On success the order stands regardless of what the notification
// side channel does afterwards.
func (o *Orchestrator) submit(ctx context.Context, sess *Session, ledger *cart.Ledger, userAgent string) (*SubmitResult, error) {
	if !CanTransitionTo(sess.Step, StepSubmitted) {
		return nil, ErrIllegalTransition
	}
	if !sess.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer sess.submitting.Store(false)

	created, err := o.orders.CreateOrder(ctx, buildOrderRequest(sess))
	if err != nil {
		return nil, err
	}
	if !order.ValidNumber(created.OrderNumber) {
		log.Printf("order api returned unexpected order number %q", created.OrderNumber)
	}

	sess.OrderNumber = created.OrderNumber
	sess.Step = StepSubmitted

	result := &SubmitResult{OrderNumber: created.OrderNumber}
	if o.notifier != nil {
		result.Notification = o.notifier.SendOrderNotification(sess.Cart, customerData(sess), sess.ShippingCost(), userAgent)
		result.NotificationWarning = !result.Notification.Success
	}

	o.publishEvent(ctx, sess)

	ledger.Clear(ctx)
	o.Discard(sess.ID)

	return result, nil
}

func buildOrderRequest(sess *Session) *order.CreateOrderRequest {
	lines := make([]order.OrderLine, len(sess.Cart.Items))
	for i, item := range sess.Cart.Items {
		lines[i] = order.OrderLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: item.UnitPrice,
		}
	}

	return &order.CreateOrderRequest{
		Customer:      customerData(sess),
		Products:      lines,
		PaymentMethod: sess.PaymentMethod,
		TotalPaid:     sess.TotalPaid(),
		ShippingCost:  sess.ShippingCost(),
		ShippingAddress: order.ShippingAddress{
			Street:  sess.Contact.Street,
			City:    sess.Contact.City,
			ZipCode: sess.Contact.ZipCode,
			Country: "Colombia",
		},
		PaymentEvidence: sess.EvidenceRef,
	}
}

func customerData(sess *Session) order.CustomerData {
	return order.CustomerData{
		Name:  sess.Contact.FullName,
		Email: sess.Contact.Email,
		Phone: sess.Contact.Phone,
	}
}

func (o *Orchestrator) publishEvent(ctx context.Context, sess *Session) {
	if o.events == nil {
		return
	}

	lines := make([]analytics.OrderLine, len(sess.Cart.Items))
	for i, item := range sess.Cart.Items {
		lines[i] = analytics.OrderLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	event := analytics.OrderEvent{
		OrderNumber:   sess.OrderNumber,
		SessionID:     sess.CartSessionID,
		PaymentMethod: string(sess.PaymentMethod),
		Items:         lines,
		TotalPaid:     sess.TotalPaid(),
		ShippingCost:  sess.ShippingCost(),
		CompletedAt:   time.Now(),
	}

	if err := o.events.PublishOrderCompleted(ctx, event); err != nil {
		log.Printf("failed to publish order event for %s: %v", sess.OrderNumber, err)
	}
}
