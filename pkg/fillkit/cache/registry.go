package cache

import "sync"

// Registry is a concurrent write-once map. A key is filled at most once;
// later lookups only read. It backs the compiled-pattern cache, which is
// shared read-only by every Formatter once warm.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewRegistry creates an empty registry.
func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Get returns the value stored under key.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Len returns the number of filled keys.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Keys returns every filled key in no particular order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Range calls fn for a snapshot of the entries until fn returns false.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// GetOrCreate returns the value for key, building it with factory on the
// first request. The factory runs at most once per key.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) V {
	v, _, _ := r.GetOrTry(key, func() (V, error) {
		return factory(), nil
	})
	return v
}

// GetOrTry is GetOrCreate for factories that can fail. A failed build is
// not stored, so the next call tries again. hit reports whether the value
// was already present.
func (r *Registry[K, V]) GetOrTry(key K, factory func() (V, error)) (v V, hit bool, err error) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.entries[key]; ok {
		return v, true, nil
	}

	v, err = factory()
	if err != nil {
		var zero V
		return zero, false, err
	}
	r.entries[key] = v
	return v, false, nil
}
