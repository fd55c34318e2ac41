package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/catalog"
	"github.com/andersondev17/AMMAE-sub000/internal/checkout"
	"github.com/andersondev17/AMMAE-sub000/internal/order"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps package sentinels to HTTP responses. Business
// rejections are expected outcomes, so they come back as 4xx with a code
// the storefront can translate, not as 500s.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "producto no encontrado")
	case errors.Is(err, cart.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", "producto agotado")
	case errors.Is(err, cart.ErrQuantityCapExceeded):
		respondError(w, http.StatusConflict, "quantity_cap_exceeded", "cantidad maxima por producto alcanzada")
	case errors.Is(err, cart.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", "no hay stock suficiente")
	case errors.Is(err, cart.ErrInvalidVariant):
		respondError(w, http.StatusBadRequest, "invalid_variant", "talla o color invalido")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "el producto no esta en el carrito")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "el carrito esta vacio")
	case errors.Is(err, checkout.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "checkout_not_found", "sesion de checkout no encontrada")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_step", "paso de checkout invalido")
	case errors.Is(err, checkout.ErrInvalidPaymentMethod):
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "metodo de pago invalido")
	case errors.Is(err, checkout.ErrInvalidShipping):
		respondError(w, http.StatusBadRequest, "invalid_shipping", "metodo de envio invalido")
	case errors.Is(err, checkout.ErrEvidenceRequired):
		respondError(w, http.StatusBadRequest, "evidence_required", "se requiere el comprobante de pago")
	case errors.Is(err, checkout.ErrSubmitInFlight):
		respondError(w, http.StatusConflict, "submit_in_flight", "ya hay un pedido en proceso")
	case errors.Is(err, order.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "order_api_unavailable", "no pudimos enviar tu pedido, intenta de nuevo")
	case errors.Is(err, order.ErrSubmitRejected):
		respondError(w, http.StatusBadGateway, "order_rejected", "el pedido fue rechazado, intenta de nuevo")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
