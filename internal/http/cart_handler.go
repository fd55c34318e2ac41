package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(carts *cart.Manager, svc *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: svc,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"producto"`
	Size      string `json:"talla"`
	Color     string `json:"color"`
	Quantity  int    `json:"cantidad"`
}

type UpdateQuantityRequestDTO struct {
	Size     string `json:"talla"`
	Color    string `json:"color"`
	Quantity int    `json:"cantidad"`
}

type CartItemDTO struct {
	ProductID string  `json:"producto"`
	Name      string  `json:"nombre"`
	Size      string  `json:"talla,omitempty"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precioUnitario"`
	LineTotal float64 `json:"totalLinea"`
	Image     string  `json:"imagen,omitempty"`
}

type CartDTO struct {
	Items        []CartItemDTO `json:"items"`
	ItemCount    int           `json:"cantidadItems"`
	Subtotal     float64       `json:"subtotal"`
	Shipping     float64       `json:"envio"`
	GrandTotal   float64       `json:"total"`
	Open         bool          `json:"abierto"`
	Notification *CartItemDTO  `json:"notificacion,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	respondJSON(w, http.StatusOK, cartDTO(ledger))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "producto is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > cart.MaxQuantityPerLine {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "cantidad out of range")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	err = ledger.AddItem(ctx, product, cart.AddOptions{
		Size:     req.Size,
		Color:    req.Color,
		Quantity: req.Quantity,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartDTO(ledger))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	key := cart.ItemKey{
		ProductID: chi.URLParam(r, "product_id"),
		Size:      req.Size,
		Color:     req.Color,
	}

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	if err := ledger.UpdateQuantity(ctx, key, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartDTO(ledger))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key := cart.ItemKey{
		ProductID: chi.URLParam(r, "product_id"),
		Size:      r.URL.Query().Get("talla"),
		Color:     r.URL.Query().Get("color"),
	}

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	ledger.RemoveItem(ctx, key)

	respondJSON(w, http.StatusOK, cartDTO(ledger))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	ledger.Clear(ctx)

	respondJSON(w, http.StatusOK, cartDTO(ledger))
}

func (h *CartHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	ledger.Open()
	respondJSON(w, http.StatusOK, cartDTO(ledger))
}

func (h *CartHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger := h.carts.Ledger(ctx, getSessionID(r.Context()))
	ledger.Close()
	respondJSON(w, http.StatusOK, cartDTO(ledger))
}

func cartDTO(ledger *cart.Ledger) CartDTO {
	snap := ledger.Snapshot()

	dto := CartDTO{
		Items:      make([]CartItemDTO, len(snap.Items)),
		ItemCount:  snap.ItemCount,
		Subtotal:   snap.Subtotal,
		Shipping:   snap.Shipping,
		GrandTotal: snap.GrandTotal,
		Open:       ledger.IsOpen(),
	}
	for i, item := range snap.Items {
		dto.Items[i] = itemDTO(item)
	}

	if notif, ok := ledger.Notification(); ok {
		d := itemDTO(*notif)
		dto.Notification = &d
	}

	return dto
}

func itemDTO(item cart.LineItem) CartItemDTO {
	dto := CartItemDTO{
		ProductID: item.Product.ID,
		Name:      item.Product.Name,
		Size:      item.Size,
		Color:     item.Color,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.LineTotal,
	}
	if len(item.Product.Images) > 0 {
		dto.Image = item.Product.Images[0]
	}
	return dto
}
