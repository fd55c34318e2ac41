package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu       sync.Mutex
	products map[string]*Product
	err      error
	calls    int
}

func (m *mockRepo) GetProduct(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListByCategory(_ context.Context, category string, limit int64) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []Product
	for _, p := range m.products {
		if p.Category == category && int64(len(out)) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockCache struct {
	mu       sync.Mutex
	products map[string]*Product
	getErr   error
	setErr   error
	sets     int
}

func (m *mockCache) Get(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return p, nil
}

func (m *mockCache) Set(_ context.Context, id string, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	if m.products == nil {
		m.products = make(map[string]*Product)
	}
	m.products[id] = product
	return nil
}

func (m *mockCache) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *mockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func testProduct() *Product {
	return &Product{
		ID:       "prod-1",
		Name:     "Vestido Midi",
		Category: "vestidos",
		Price:    120000,
		Stock:    10,
		Sizes:    []string{"S", "M", "L"},
	}
}

func TestGetProduct_CacheHit(t *testing.T) {
	repo := &mockRepo{}
	cache := &mockCache{products: map[string]*Product{"prod-1": testProduct()}}
	sut := NewService(repo, cache)

	p, err := sut.GetProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Vestido Midi", p.Name)
	assert.Equal(t, 0, repo.calls, "cache hit should not touch the repository")
}

func TestGetProduct_CacheMissPopulatesCache(t *testing.T) {
	repo := &mockRepo{products: map[string]*Product{"prod-1": testProduct()}}
	cache := &mockCache{}
	sut := NewService(repo, cache)

	p, err := sut.GetProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)

	// Cache fill is asynchronous.
	require.Eventually(t, func() bool {
		return cache.setCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGetProduct_CacheErrorFallsThrough(t *testing.T) {
	repo := &mockRepo{products: map[string]*Product{"prod-1": testProduct()}}
	cache := &mockCache{getErr: errors.New("redis down")}
	sut := NewService(repo, cache)

	p, err := sut.GetProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, 1, repo.calls)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := &mockRepo{products: map[string]*Product{}}
	cache := &mockCache{}
	sut := NewService(repo, cache)

	_, err := sut.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProduct_CacheSetErrorTolerated(t *testing.T) {
	repo := &mockRepo{products: map[string]*Product{"prod-1": testProduct()}}
	cache := &mockCache{setErr: errors.New("redis down")}
	sut := NewService(repo, cache)

	p, err := sut.GetProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)
}

func TestListByCategory_ClampsLimit(t *testing.T) {
	repo := &mockRepo{products: map[string]*Product{"prod-1": testProduct()}}
	sut := NewService(repo, &mockCache{})

	out, err := sut.ListByCategory(context.Background(), "vestidos", -1)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = sut.ListByCategory(context.Background(), "vestidos", 500)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
