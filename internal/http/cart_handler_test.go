package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/catalog"
)

type stubRepo struct {
	products map[string]*catalog.Product
}

func (s stubRepo) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s stubRepo) ListByCategory(_ context.Context, category string, limit int64) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range s.products {
		if p.Category == category && int64(len(out)) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*catalog.Product, error) {
	return nil, catalog.ErrCacheMiss
}
func (nopCache) Set(context.Context, string, *catalog.Product) error { return nil }
func (nopCache) Delete(context.Context, string) error                { return nil }

type memStorage struct {
	mu    sync.Mutex
	carts map[string][]cart.StoredItem
}

func (m *memStorage) Load(_ context.Context, sessionID string) ([]cart.StoredItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.carts[sessionID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return items, nil
}

func (m *memStorage) Save(_ context.Context, sessionID string, items []cart.StoredItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.carts == nil {
		m.carts = make(map[string][]cart.StoredItem)
	}
	m.carts[sessionID] = items
	return nil
}

func (m *memStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func testCatalog() stubRepo {
	sale := 40000.0
	return stubRepo{products: map[string]*catalog.Product{
		"p1": {
			ID:       "p1",
			Name:     "Vestido Midi",
			Category: "vestidos",
			Price:    120000,
			Stock:    10,
			Sizes:    []string{"S", "M", "L"},
			Colors:   []string{"negro", "rojo"},
		},
		"p2": {
			ID:        "p2",
			Name:      "Bolso",
			Category:  "accesorios",
			Price:     60000,
			OnSale:    true,
			SalePrice: &sale,
			Stock:     3,
		},
		"agotado": {
			ID:    "agotado",
			Name:  "Chaqueta",
			Price: 90000,
			Stock: 0,
		},
	}}
}

func newTestCartHandler() *CartHandler {
	repo := testCatalog()
	svc := catalog.NewService(repo, nopCache{})
	manager := cart.NewManager(&memStorage{}, repo)
	return NewCartHandler(manager, svc, 5*time.Second)
}

func withSession(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

func withProductParam(r *http.Request, productID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("product_id", productID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func addItem(t *testing.T, handler *CartHandler, sessionID string, body AddItemRequestDTO) *httptest.ResponseRecorder {
	t.Helper()
	reqBytes, _ := json.Marshal(body)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(reqBytes))
	handler.AddItem(recorder, withSession(request, sessionID))
	return recorder
}

func TestGetCart_Empty(t *testing.T) {
	handler := newTestCartHandler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	handler.GetCart(recorder, withSession(request, "s1"))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Items) != 0 {
		t.Errorf("Expected empty cart, got %d items", len(response.Items))
	}
	if response.GrandTotal != 0 {
		t.Errorf("Expected total 0, got %f", response.GrandTotal)
	}
}

func TestAddItem_Success(t *testing.T) {
	handler := newTestCartHandler()

	recorder := addItem(t, handler, "s1", AddItemRequestDTO{
		ProductID: "p1",
		Size:      "M",
		Color:     "negro",
		Quantity:  2,
	})

	if recorder.Code != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response CartDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(response.Items))
	}
	if response.Items[0].Quantity != 2 {
		t.Errorf("Expected quantity 2, got %d", response.Items[0].Quantity)
	}
	if response.Subtotal != 240000 {
		t.Errorf("Expected subtotal 240000, got %f", response.Subtotal)
	}
	if response.Notification == nil {
		t.Error("Expected add notification in response")
	}
}

func TestAddItem_SalePriceApplied(t *testing.T) {
	handler := newTestCartHandler()

	recorder := addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p2", Quantity: 1})

	var response CartDTO
	json.NewDecoder(recorder.Body).Decode(&response)

	if len(response.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(response.Items))
	}
	if response.Items[0].UnitPrice != 40000 {
		t.Errorf("Expected sale price 40000, got %f", response.Items[0].UnitPrice)
	}
}

func TestAddItem_InvalidJSON(t *testing.T) {
	handler := newTestCartHandler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte("invalid json")))
	handler.AddItem(recorder, withSession(request, "s1"))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_request" {
		t.Errorf("Expected error code 'invalid_request', got '%s'", response.Code)
	}
}

func TestAddItem_MissingProductID(t *testing.T) {
	handler := newTestCartHandler()

	recorder := addItem(t, handler, "s1", AddItemRequestDTO{Quantity: 1})

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_product_id" {
		t.Errorf("Expected error code 'invalid_product_id', got '%s'", response.Code)
	}
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	handler := newTestCartHandler()

	tests := []struct {
		name     string
		quantity int
	}{
		{"negative quantity", -1},
		{"quantity too high", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p1", Quantity: tt.quantity})

			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
			}

			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != "invalid_quantity" {
				t.Errorf("Expected error code 'invalid_quantity', got '%s'", response.Code)
			}
		})
	}
}

func TestAddItem_ProductNotFound(t *testing.T) {
	handler := newTestCartHandler()

	recorder := addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "missing", Quantity: 1})

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "product_not_found" {
		t.Errorf("Expected error code 'product_not_found', got '%s'", response.Code)
	}
}

func TestAddItem_OutOfStock(t *testing.T) {
	handler := newTestCartHandler()

	recorder := addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "agotado", Quantity: 1})

	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected status code %d, got %d", http.StatusConflict, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "out_of_stock" {
		t.Errorf("Expected error code 'out_of_stock', got '%s'", response.Code)
	}
}

func TestAddItem_InvalidVariant(t *testing.T) {
	handler := newTestCartHandler()

	recorder := addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p1", Size: "XXL", Quantity: 1})

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_variant" {
		t.Errorf("Expected error code 'invalid_variant', got '%s'", response.Code)
	}
}

func TestUpdateQuantity_Success(t *testing.T) {
	handler := newTestCartHandler()
	addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p1", Size: "M", Color: "negro", Quantity: 2})

	req := UpdateQuantityRequestDTO{Size: "M", Color: "negro", Quantity: 5}
	reqBytes, _ := json.Marshal(req)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/v1/cart/items/p1", bytes.NewReader(reqBytes))
	request = withSession(request, "s1")
	request = withProductParam(request, "p1")

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Items[0].Quantity != 5 {
		t.Errorf("Expected quantity 5, got %d", response.Items[0].Quantity)
	}
}

func TestUpdateQuantity_ItemNotFound(t *testing.T) {
	handler := newTestCartHandler()

	req := UpdateQuantityRequestDTO{Quantity: 5}
	reqBytes, _ := json.Marshal(req)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/v1/cart/items/p1", bytes.NewReader(reqBytes))
	request = withSession(request, "s1")
	request = withProductParam(request, "p1")

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "item_not_found" {
		t.Errorf("Expected error code 'item_not_found', got '%s'", response.Code)
	}
}

func TestRemoveItem_Success(t *testing.T) {
	handler := newTestCartHandler()
	addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p1", Size: "M", Color: "negro", Quantity: 2})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/api/v1/cart/items/p1?talla=M&color=negro", nil)
	request = withSession(request, "s1")
	request = withProductParam(request, "p1")

	handler.RemoveItem(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if len(response.Items) != 0 {
		t.Errorf("Expected empty cart, got %d items", len(response.Items))
	}
}

func TestClearCart_Success(t *testing.T) {
	handler := newTestCartHandler()
	addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p1", Size: "M", Color: "negro", Quantity: 2})
	addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p2", Quantity: 1})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	handler.ClearCart(recorder, withSession(request, "s1"))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if len(response.Items) != 0 {
		t.Errorf("Expected empty cart, got %d items", len(response.Items))
	}
	if response.ItemCount != 0 {
		t.Errorf("Expected item count 0, got %d", response.ItemCount)
	}
}

func TestCartIsolatedPerSession(t *testing.T) {
	handler := newTestCartHandler()
	addItem(t, handler, "s1", AddItemRequestDTO{ProductID: "p1", Size: "M", Color: "negro", Quantity: 2})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	handler.GetCart(recorder, withSession(request, "s2"))

	var response CartDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if len(response.Items) != 0 {
		t.Errorf("Expected session s2 cart to be empty, got %d items", len(response.Items))
	}
}
