package session

import "sync"

// Store defines the key-value storage the registry keeps its tables in.
// Implementations must be safe for concurrent use.
type Store[K comparable, V any] interface {
	// Get retrieves the value stored under key
	Get(key K) (V, bool)

	// Put stores value under key, replacing any previous value
	Put(key K, value V)

	// PutIfAbsent stores value only when key is unused and reports whether it did
	PutIfAbsent(key K, value V) bool

	// Values returns every stored value in no particular order
	Values() []V

	// Len returns the number of stored entries
	Len() int
}

// MemoryStore implements Store with a map guarded by a RWMutex
type MemoryStore[K comparable, V any] struct {
	items map[K]V
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore[K comparable, V any]() *MemoryStore[K, V] {
	return &MemoryStore[K, V]{
		items: make(map[K]V),
	}
}

func (s *MemoryStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MemoryStore[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

func (s *MemoryStore[K, V]) PutIfAbsent(key K, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		return false
	}
	s.items[key] = value
	return true
}

func (s *MemoryStore[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]V, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}
	return result
}

func (s *MemoryStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
