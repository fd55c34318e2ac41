package cart

import (
	"context"
	"sync"
)

// Manager hands out one ledger per session and restores it from storage
// on first use. Each ledger is the single writer of its own storage key.
type Manager struct {
	mu       sync.Mutex
	ledgers  map[string]*Ledger
	storage  Storage
	products ProductSource
}

func NewManager(storage Storage, products ProductSource) *Manager {
	return &Manager{
		ledgers:  make(map[string]*Ledger),
		storage:  storage,
		products: products,
	}
}

func (m *Manager) Ledger(ctx context.Context, sessionID string) *Ledger {
	m.mu.Lock()
	ledger, ok := m.ledgers[sessionID]
	if !ok {
		ledger = NewLedger(sessionID, m.storage)
		m.ledgers[sessionID] = ledger
	}
	m.mu.Unlock()

	if !ok {
		ledger.Restore(ctx, m.products)
	}
	return ledger
}

// Drop forgets a session's in-memory ledger. Storage is left alone.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ledgers, sessionID)
}
