package localstore

import (
	"sync"

	"github.com/trezcool/masomo-portal/core"
)

// Memory is a volatile core.Storage, lost when the process exits.
type Memory struct {
	t     map[string]string
	mutex sync.RWMutex
}

var _ core.Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{t: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	val, ok := m.t[key]
	return val, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.t[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.t, key)
	return nil
}
