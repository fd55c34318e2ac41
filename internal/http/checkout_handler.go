package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/checkout"
	"github.com/andersondev17/AMMAE-sub000/internal/notify"
	"github.com/andersondev17/AMMAE-sub000/internal/order"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	carts        *cart.Manager
	timeout      time.Duration
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, carts *cart.Manager, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		carts:        carts,
		timeout:      timeout,
	}
}

type ContactRequestDTO struct {
	checkout.ContactForm
	ShippingMethod string `json:"metodoEnvio"`
}

type PaymentRequestDTO struct {
	PaymentMethod string `json:"metodoPago"`
}

type EvidenceRequestDTO struct {
	EvidenceRef string `json:"comprobantePago"`
}

type CheckoutStateDTO struct {
	CheckoutID string  `json:"checkoutId"`
	Step       int     `json:"paso"`
	StepName   string  `json:"pasoNombre"`
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"costoEnvio"`
	TotalPaid  float64 `json:"totalPagado"`
}

type SubmitResultDTO struct {
	OrderNumber         string        `json:"numeroOrden"`
	NotificationWarning bool          `json:"avisoNotificacion,omitempty"`
	Notification        notify.Result `json:"notificacion"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	ledger := h.carts.Ledger(ctx, sessionID)

	sess, err := h.orchestrator.Begin(ledger, sessionID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, stateDTO(sess))
}

func (h *CheckoutHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	sess, err := h.orchestrator.Session(chi.URLParam(r, "checkout_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var req ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	shipping := checkout.ShippingMethod(req.ShippingMethod)
	if req.ShippingMethod == "" {
		shipping = checkout.ShippingStandard
	}

	fieldErrs, err := h.orchestrator.SubmitContactInfo(sess, req.ContactForm, shipping)
	if err != nil {
		if len(fieldErrs) > 0 {
			respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "datos de contacto invalidos",
				Code:   "validation_failed",
				Fields: fieldErrs,
			})
			return
		}
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stateDTO(sess))
}

func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, err := h.orchestrator.Session(chi.URLParam(r, "checkout_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ledger := h.carts.Ledger(ctx, sess.CartSessionID)
	result, err := h.orchestrator.SelectPaymentMethod(ctx, sess, ledger, order.PaymentMethod(req.PaymentMethod), r.UserAgent())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if result == nil {
		// Transfer or QR: parked at the evidence step, no order yet.
		respondJSON(w, http.StatusOK, stateDTO(sess))
		return
	}

	respondJSON(w, http.StatusCreated, submitDTO(result))
}

func (h *CheckoutHandler) ConfirmEvidence(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, err := h.orchestrator.Session(chi.URLParam(r, "checkout_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var req EvidenceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ledger := h.carts.Ledger(ctx, sess.CartSessionID)
	result, err := h.orchestrator.ConfirmEvidence(ctx, sess, ledger, req.EvidenceRef, r.UserAgent())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, submitDTO(result))
}

func (h *CheckoutHandler) Discard(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.Discard(chi.URLParam(r, "checkout_id"))
	w.WriteHeader(http.StatusNoContent)
}

func stateDTO(sess *checkout.Session) CheckoutStateDTO {
	return CheckoutStateDTO{
		CheckoutID: sess.ID,
		Step:       int(sess.Step),
		StepName:   sess.Step.String(),
		Subtotal:   sess.Cart.Subtotal,
		Shipping:   sess.ShippingCost(),
		TotalPaid:  sess.TotalPaid(),
	}
}

func submitDTO(result *checkout.SubmitResult) SubmitResultDTO {
	return SubmitResultDTO{
		OrderNumber:         result.OrderNumber,
		NotificationWarning: result.NotificationWarning,
		Notification:        result.Notification,
	}
}
