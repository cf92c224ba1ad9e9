package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// Manager owns all collection databases under one storage directory:
// one db file per searchable domain plus history.db. Collections are
// opened lazily and cached.
type Manager struct {
	storageDir  string
	collections map[core.DomainType]*Collection
	history     *HistoryStore
	mu          sync.Mutex
}

func NewManager(storageDir string) *Manager {
	return &Manager{
		storageDir:  storageDir,
		collections: make(map[core.DomainType]*Collection),
	}
}

// Collection returns the record collection for domain, opening it on
// first use.
func (m *Manager) Collection(domain core.DomainType) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, exists := m.collections[domain]; exists {
		return c, nil
	}

	dbPath := filepath.Join(m.storageDir, fmt.Sprintf("%s.db", domain))
	c, err := NewCollection(dbPath, string(domain))
	if err != nil {
		return nil, fmt.Errorf("opening collection for %s: %w", domain, err)
	}
	m.collections[domain] = c
	return c, nil
}

// History returns the history store, opening it on first use.
func (m *Manager) History() (*HistoryStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.history != nil {
		return m.history, nil
	}

	h, err := NewHistoryStore(filepath.Join(m.storageDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	m.history = h
	return h, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for domain, c := range m.collections {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing collection %s: %w", domain, err))
		}
	}
	m.collections = make(map[core.DomainType]*Collection)

	if m.history != nil {
		if err := m.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing history store: %w", err))
		}
		m.history = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing storage: %v", errs)
	}
	return nil
}
