package storage

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps counters in a map (not persistent)
type MemoryStore struct {
	counts map[uuid.UUID]uint32
	mu     sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts: make(map[uuid.UUID]uint32),
	}
}

func (m *MemoryStore) Load(id uuid.UUID) (uint32, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	left, ok := m.counts[id]
	return left, ok, nil
}

func (m *MemoryStore) Save(id uuid.UUID, left uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[id] = left
	return nil
}

// ForEach iterates over a snapshot so fn may call back into the store.
func (m *MemoryStore) ForEach(fn func(id uuid.UUID, left uint32) error) error {
	m.mu.RLock()
	snapshot := make(map[uuid.UUID]uint32, len(m.counts))
	for id, left := range m.counts {
		snapshot[id] = left
	}
	m.mu.RUnlock()

	for id, left := range snapshot {
		if err := fn(id, left); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
