package cache

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps expanded sources in memory.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if prev, ok := m.entries[entry.Key]; ok {
		entry.Created = prev.Created
	} else if entry.Created.IsZero() {
		entry.Created = time.Now().UTC()
	}
	m.entries[entry.Key] = entry
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	e, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].Key < out[j].Key
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.entries, key)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}
