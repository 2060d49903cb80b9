package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager opens one Store per collection name under a data directory and
// reuses the handle for the life of the process. The caller owns the
// manager's lifecycle; there is no package-global state.
type Manager struct {
	dir string

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir, stores: map[string]*Store{}}
}

// Get returns the store for a collection, opening it on first access.
func (m *Manager) Get(collection string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[collection]; ok {
		return s, nil
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s, err := Open(filepath.Join(m.dir, collection+".db"))
	if err != nil {
		return nil, err
	}
	m.stores[collection] = s
	return s, nil
}

// Close closes every open store. The manager must not be used afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for name, s := range m.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", name, err)
		}
	}
	m.stores = map[string]*Store{}
	return firstErr
}
