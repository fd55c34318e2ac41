package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var (
	ErrSubmitRejected = errors.New("order api rejected the submission")
	ErrUnavailable    = errors.New("order api unavailable")
)

// Submitter is what checkout depends on; the HTTP client below is the
// production implementation.
type Submitter interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
}

// Client posts orders to the external Order API. Calls go through a
// circuit breaker so a down API fails fast instead of piling up requests.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*Order]
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	settings := gobreaker.Settings{
		Name:    "order-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		cb:      gobreaker.NewCircuitBreaker[*Order](settings),
	}
}

func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	result, err := c.cb.Execute(func() (*Order, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return result, nil
}

type createOrderResponse struct {
	Success bool   `json:"success"`
	Data    *Order `json:"data"`
	Message string `json:"message,omitempty"`
}

func (c *Client) post(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("order api call failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 || !decoded.Success || decoded.Data == nil {
		if decoded.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrSubmitRejected, decoded.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrSubmitRejected, resp.StatusCode)
	}

	return decoded.Data, nil
}
